package matching

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"tunebridge/internal/jellyfin"
	"tunebridge/internal/logging"
	"tunebridge/internal/textutil"
)

// Default candidate search limits.
const (
	DefaultSearchLimit = 20
	DefaultQueryLimit  = 50
)

// Situation classifies a candidate search outcome.
type Situation string

// Situations.
const (
	// SituationOneToOne covers zero or one candidate.
	SituationOneToOne Situation = "one-to-one"
	// SituationOneToMany means the search was ambiguous.
	SituationOneToMany Situation = "one-to-many"
)

// Candidate is a library item annotated with its differences from the
// provider track. Similarity is a display-only Jaro-Winkler score over the
// track names; it never influences ordering.
type Candidate struct {
	Item        jellyfin.Item `json:"item"`
	Differences []Difference  `json:"differences"`
	Similarity  float64       `json:"similarity"`
}

// LibrarySearcher is the subset of the Jellyfin client the finder needs.
type LibrarySearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]jellyfin.Item, error)
}

// Finder proposes library candidates for provider tracks.
type Finder struct {
	library     LibrarySearcher
	logger      *slog.Logger
	searchLimit int
	queryLimit  int
}

// NewFinder constructs a candidate finder. Non-positive limits fall back to
// the defaults.
func NewFinder(library LibrarySearcher, logger *slog.Logger, searchLimit, queryLimit int) *Finder {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	if queryLimit <= 0 {
		queryLimit = DefaultQueryLimit
	}
	return &Finder{
		library:     library,
		logger:      logging.NewComponentLogger(logger, "matching"),
		searchLimit: searchLimit,
		queryLimit:  queryLimit,
	}
}

// FindCandidates searches the library for the provider track and ranks the
// results by difference count ascending, preserving the library's relative
// order on ties. The query defaults to the track name when searchQuery is
// empty and is truncated to the query limit. A library failure degrades to an
// empty result; candidate search is best-effort.
func (f *Finder) FindCandidates(ctx context.Context, track Track, searchQuery string) ([]Candidate, Situation) {
	query := strings.TrimSpace(searchQuery)
	if query == "" {
		query = track.Name
	}
	query = textutil.TruncateRunes(query, f.queryLimit)

	items, err := f.library.SearchTracks(ctx, query, f.searchLimit)
	if err != nil {
		f.logger.Warn("library candidate search failed",
			logging.String("query", query),
			logging.Error(err))
		return nil, SituationOneToOne
	}

	jaroWinkler := metrics.NewJaroWinkler()
	foldedName := textutil.Fold(track.Name)

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, Candidate{
			Item:        item,
			Differences: Differences(track, item),
			Similarity:  strutil.Similarity(foldedName, textutil.Fold(item.Name), jaroWinkler),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Differences) < len(candidates[j].Differences)
	})

	situation := SituationOneToOne
	if len(candidates) > 1 {
		situation = SituationOneToMany
	}
	return candidates, situation
}
