package matching

import (
	"tunebridge/internal/jellyfin"
	"tunebridge/internal/textutil"
)

// Track is the provider-side metadata a library candidate is compared
// against.
type Track struct {
	Name         string
	AlbumName    string
	Artists      []string
	AlbumArtists []string
}

// Difference records one metadata field that disagrees between a provider
// track and a library item.
type Difference struct {
	Criterion     Criteria `json:"field"`
	ProviderValue string   `json:"providerValue"`
	JellyfinValue string   `json:"jellyfinValue"`
}

// Differences compares a provider track against a library candidate field by
// field. Comparison is case-insensitive; list fields are compared as a
// comma-joined string in original order. A missing candidate album is treated
// as empty, not as an error. The result order is fixed: TrackName, AlbumName,
// Artists, AlbumArtists.
func Differences(track Track, item jellyfin.Item) []Difference {
	pairs := []struct {
		criterion Criteria
		provider  string
		jellyfin  string
	}{
		{CriterionTrackName, track.Name, item.Name},
		{CriterionAlbumName, track.AlbumName, item.Album},
		{CriterionArtists, textutil.JoinNames(track.Artists), textutil.JoinNames(item.Artists)},
		{CriterionAlbumArtists, textutil.JoinNames(track.AlbumArtists), textutil.JoinNames(item.AlbumArtists)},
	}

	var diffs []Difference
	for _, pair := range pairs {
		if textutil.FoldEquals(pair.provider, pair.jellyfin) {
			continue
		}
		diffs = append(diffs, Difference{
			Criterion:     pair.criterion,
			ProviderValue: pair.provider,
			JellyfinValue: pair.jellyfin,
		})
	}
	return diffs
}
