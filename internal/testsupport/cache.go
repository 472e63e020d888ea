package testsupport

import (
	"context"
	"testing"

	"tunebridge/internal/config"
	"tunebridge/internal/provider"
)

// MustOpenCache opens a provider.Cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *provider.Cache {
	t.Helper()

	cache, err := provider.Open(cfg.ProviderCachePath())
	if err != nil {
		t.Fatalf("provider.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}

// SeedTrack stores a provider track for tests using the provided cache and
// returns it with the assigned internal id.
func SeedTrack(t testing.TB, cache *provider.Cache, track provider.Track) provider.Track {
	t.Helper()

	id, err := cache.SaveTrack(context.Background(), track)
	if err != nil {
		t.Fatalf("cache.SaveTrack: %v", err)
	}
	track.ID = id
	return track
}
