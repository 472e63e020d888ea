package provider

import (
	"errors"
	"time"

	"tunebridge/internal/matching"
)

// ErrNotFound reports that a track or match is absent from the cache. Absence
// is a normal outcome callers must check, never a fault.
var ErrNotFound = errors.New("provider: not found")

// Track is one track's metadata as known by the external provider.
type Track struct {
	ID              int64    `json:"id"`
	ProviderID      string   `json:"providerId"`
	ProviderTrackID string   `json:"providerTrackId"`
	Name            string   `json:"name"`
	AlbumName       string   `json:"albumName"`
	Artists         []string `json:"artists"`
	AlbumArtists    []string `json:"albumArtists"`
}

// Metadata returns the comparable view of the track used by the matching
// engine.
func (t Track) Metadata() matching.Track {
	return matching.Track{
		Name:         t.Name,
		AlbumName:    t.AlbumName,
		Artists:      t.Artists,
		AlbumArtists: t.AlbumArtists,
	}
}

// Match is the recorded library match for a cached provider track.
type Match struct {
	TrackID         int64             `json:"trackId"`
	JellyfinTrackID string            `json:"jellyfinTrackId"`
	Level           matching.Level    `json:"matchLevel"`
	Criteria        matching.Criteria `json:"matchCriteria"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
