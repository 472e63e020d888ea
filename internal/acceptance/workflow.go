package acceptance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tunebridge/internal/jellyfin"
	"tunebridge/internal/logging"
	"tunebridge/internal/matching"
	"tunebridge/internal/matchstore"
	"tunebridge/internal/provider"
)

// Note recorded on every match accepted through this workflow.
const acceptedNote = "Accepted via the track matching interface"

// Per-request failure reasons surfaced to callers.
const (
	ReasonProviderTrackNotFound = "Provider track not found"
	ReasonJellyfinTrackNotFound = "Jellyfin track not found"
)

var (
	errProviderTrackNotFound = errors.New(ReasonProviderTrackNotFound)
	errJellyfinTrackNotFound = errors.New(ReasonJellyfinTrackNotFound)
)

// Request asks for one provider track to be matched to one library item.
type Request struct {
	ProviderID      string `json:"providerId"`
	ProviderTrackID string `json:"providerTrackId"`
	JellyfinTrackID string `json:"jellyfinTrackId"`
}

// Result reports the outcome for one request.
type Result struct {
	Request
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// TrackCache is the subset of the provider cache the workflow needs.
type TrackCache interface {
	GetTrackID(ctx context.Context, providerID, providerTrackID string) (int64, error)
	GetTrack(ctx context.Context, providerID string, id int64) (*provider.Track, error)
	RecordMatch(ctx context.Context, trackID int64, jellyfinTrackID string, level matching.Level, criteria matching.Criteria) error
}

// LibraryResolver is the subset of the Jellyfin client the workflow needs.
type LibraryResolver interface {
	GetTrack(ctx context.Context, id string) (*jellyfin.Item, error)
}

// Workflow accepts batches of match requests.
type Workflow struct {
	overrides *matchstore.OverrideStore
	verified  *matchstore.VerifiedStore
	cache     TrackCache
	library   LibraryResolver
	level     matching.Level
	criteria  matching.Criteria
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs a workflow. Level and criteria are the active matching
// configuration recorded on accepted matches.
func New(overrides *matchstore.OverrideStore, verified *matchstore.VerifiedStore, cache TrackCache, library LibraryResolver, level matching.Level, criteria matching.Criteria, logger *slog.Logger) *Workflow {
	return &Workflow{
		overrides: overrides,
		verified:  verified,
		cache:     cache,
		library:   library,
		level:     level,
		criteria:  criteria,
		logger:    logging.NewComponentLogger(logger, "acceptance"),
		now:       time.Now,
	}
}

// AcceptBatch processes every request, isolating failures per item, then
// persists both stores. The per-item results are returned even when the
// final save fails; in that case the error reports that the batch was not
// persisted and the caller should retry the whole batch.
func (w *Workflow) AcceptBatch(ctx context.Context, requests []Request) ([]Result, error) {
	results := make([]Result, 0, len(requests))

	for _, req := range requests {
		result := Result{Request: req}
		if err := w.acceptOne(ctx, req); err != nil {
			result.Reason = err.Error()
			w.logger.Warn("match acceptance failed",
				logging.String(logging.FieldProvider, req.ProviderID),
				logging.String(logging.FieldProviderTrackID, req.ProviderTrackID),
				logging.String(logging.FieldJellyfinItemID, req.JellyfinTrackID),
				logging.Error(err))
		} else {
			result.Accepted = true
			w.logger.Info("match accepted",
				logging.String(logging.FieldProvider, req.ProviderID),
				logging.String(logging.FieldProviderTrackID, req.ProviderTrackID),
				logging.String(logging.FieldJellyfinItemID, req.JellyfinTrackID))
		}
		results = append(results, result)
	}

	if err := errors.Join(w.overrides.Save(), w.verified.Save()); err != nil {
		return results, fmt.Errorf("persist match stores: %w", err)
	}
	return results, nil
}

func (w *Workflow) acceptOne(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.ProviderID == "" || req.ProviderTrackID == "" || req.JellyfinTrackID == "" {
		return errors.New("request requires provider id, provider track id, and jellyfin track id")
	}

	trackID, err := w.cache.GetTrackID(ctx, req.ProviderID, req.ProviderTrackID)
	if errors.Is(err, provider.ErrNotFound) {
		return errProviderTrackNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve provider track id: %w", err)
	}

	track, err := w.cache.GetTrack(ctx, req.ProviderID, trackID)
	if errors.Is(err, provider.ErrNotFound) {
		return errProviderTrackNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve provider track: %w", err)
	}

	item, err := w.library.GetTrack(ctx, req.JellyfinTrackID)
	if err != nil {
		return fmt.Errorf("resolve jellyfin track: %w", err)
	}
	if item == nil {
		return errJellyfinTrackNotFound
	}

	snapshot := matchstore.TrackSnapshot{
		Name:         track.Name,
		AlbumName:    track.AlbumName,
		Artists:      track.Artists,
		AlbumArtists: track.AlbumArtists,
	}
	w.overrides.RemoveBySnapshot(snapshot)
	if err := w.overrides.Add(matchstore.OverrideEntry{Track: snapshot, JellyfinTrackID: item.ID}); err != nil {
		return fmt.Errorf("record manual override: %w", err)
	}

	match := matchstore.VerifiedMatch{
		ProviderID:      req.ProviderID,
		ProviderTrackID: req.ProviderTrackID,
		JellyfinTrackID: item.ID,
		Level:           w.level,
		Criteria:        w.criteria,
		IsManualMatch:   true,
		VerifiedAt:      w.now().UTC(),
		Notes:           acceptedNote,
	}
	if err := w.verified.Add(match); err != nil {
		return fmt.Errorf("record verified match: %w", err)
	}

	// The cache record is coarser than the ledger entry on purpose: it only
	// marks the pair as resolved for future lookups.
	if err := w.cache.RecordMatch(ctx, trackID, item.ID, matching.LevelDefault, matching.AllCriteria); err != nil {
		w.logger.Warn("provider cache write-through failed",
			logging.String(logging.FieldProvider, req.ProviderID),
			logging.String(logging.FieldProviderTrackID, req.ProviderTrackID),
			logging.Error(err))
	}

	return nil
}
