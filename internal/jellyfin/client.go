package jellyfin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item is a music track entry in the Jellyfin library.
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Album        string   `json:"album"`
	Artists      []string `json:"artists"`
	AlbumArtists []string `json:"albumArtists"`
	IndexNumber  int      `json:"indexNumber"`
	Path         string   `json:"path"`
}

// Client defines the library index operations used by the matching engine.
type Client interface {
	// SearchTracks returns up to limit audio items matching the query.
	SearchTracks(ctx context.Context, query string, limit int) ([]Item, error)
	// GetTrack returns the audio item with the given id, or nil when the
	// library has no such item.
	GetTrack(ctx context.Context, id string) (*Item, error)
}

// NormalizeItemID validates and canonicalizes a Jellyfin item identifier.
// Jellyfin accepts both dashed and compact UUID forms; the compact form is
// returned so ids compare as strings.
func NormalizeItemID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("item id is empty")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("item id %q is not a valid UUID: %w", id, err)
	}
	return strings.ReplaceAll(parsed.String(), "-", ""), nil
}
