package matchstore

import (
	"strings"
	"time"

	"tunebridge/internal/matching"
	"tunebridge/internal/textutil"
)

// TrackSnapshot is the provider track metadata captured when an override is
// created. It serves as a best-effort key: the provider pair is not recorded
// by the source of an override, so the metadata itself identifies the track.
type TrackSnapshot struct {
	Name         string   `json:"name"`
	AlbumName    string   `json:"albumName"`
	Artists      []string `json:"artists"`
	AlbumArtists []string `json:"albumArtists"`
}

// Key returns the case-folded identity of the snapshot.
func (s TrackSnapshot) Key() string {
	parts := []string{
		textutil.Fold(s.Name),
		textutil.Fold(s.AlbumName),
		textutil.Fold(textutil.JoinNames(s.Artists)),
	}
	return strings.Join(parts, "\x1f")
}

// Matches reports whether two snapshots identify the same provider track.
func (s TrackSnapshot) Matches(other TrackSnapshot) bool {
	return s.Key() == other.Key()
}

// OverrideEntry maps a provider track snapshot to the library item an
// operator chose for it.
type OverrideEntry struct {
	Track           TrackSnapshot `json:"track"`
	JellyfinTrackID string        `json:"jellyfinTrackId"`
}

// VerifiedMatch records an accepted provider-to-library match.
type VerifiedMatch struct {
	ProviderID      string            `json:"providerId"`
	ProviderTrackID string            `json:"providerTrackId"`
	JellyfinTrackID string            `json:"jellyfinTrackId"`
	Level           matching.Level    `json:"matchLevel"`
	Criteria        matching.Criteria `json:"matchCriteria"`
	IsManualMatch   bool              `json:"isManualMatch"`
	VerifiedAt      time.Time         `json:"verifiedAt"`
	Notes           string            `json:"notes,omitempty"`
}

// Key returns the canonical (providerId, providerTrackId) identity.
func (m VerifiedMatch) Key() string {
	return m.ProviderID + "\x1f" + m.ProviderTrackID
}

// Equal compares all fields, using time.Time semantics for VerifiedAt.
func (m VerifiedMatch) Equal(other VerifiedMatch) bool {
	return m.ProviderID == other.ProviderID &&
		m.ProviderTrackID == other.ProviderTrackID &&
		m.JellyfinTrackID == other.JellyfinTrackID &&
		m.Level == other.Level &&
		m.Criteria == other.Criteria &&
		m.IsManualMatch == other.IsManualMatch &&
		m.VerifiedAt.Equal(other.VerifiedAt) &&
		m.Notes == other.Notes
}

func verifiedKey(providerID, providerTrackID string) string {
	return providerID + "\x1f" + providerTrackID
}
