package acceptance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tunebridge/internal/jellyfin"
	"tunebridge/internal/matching"
	"tunebridge/internal/matchstore"
	"tunebridge/internal/provider"
)

type fakeCache struct {
	tracks       map[string]provider.Track // keyed by providerID+"/"+providerTrackID
	recorded     []string                  // jellyfin ids passed to RecordMatch
	recordErr    error
	recordLevels []matching.Level
}

func (f *fakeCache) key(providerID, providerTrackID string) string {
	return providerID + "/" + providerTrackID
}

func (f *fakeCache) GetTrackID(ctx context.Context, providerID, providerTrackID string) (int64, error) {
	if track, ok := f.tracks[f.key(providerID, providerTrackID)]; ok {
		return track.ID, nil
	}
	return 0, provider.ErrNotFound
}

func (f *fakeCache) GetTrack(ctx context.Context, providerID string, id int64) (*provider.Track, error) {
	for _, track := range f.tracks {
		if track.ProviderID == providerID && track.ID == id {
			found := track
			return &found, nil
		}
	}
	return nil, provider.ErrNotFound
}

func (f *fakeCache) RecordMatch(ctx context.Context, trackID int64, jellyfinTrackID string, level matching.Level, criteria matching.Criteria) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, jellyfinTrackID)
	f.recordLevels = append(f.recordLevels, level)
	return nil
}

type fakeLibrary struct {
	items map[string]jellyfin.Item
}

func (f *fakeLibrary) GetTrack(ctx context.Context, id string) (*jellyfin.Item, error) {
	if item, ok := f.items[id]; ok {
		found := item
		return &found, nil
	}
	return nil, nil
}

func testFixture(t *testing.T) (*Workflow, *matchstore.OverrideStore, *matchstore.VerifiedStore, *fakeCache) {
	t.Helper()
	dir := t.TempDir()
	overrides := matchstore.NewOverrideStore(filepath.Join(dir, "manual_track_map.json"), nil)
	verified := matchstore.NewVerifiedStore(filepath.Join(dir, "verified_matches.json"), nil)

	cache := &fakeCache{tracks: map[string]provider.Track{
		"Spotify/T1": {ID: 1, ProviderID: "Spotify", ProviderTrackID: "T1", Name: "Song One", AlbumName: "Album", Artists: []string{"Artist"}},
		"Spotify/T2": {ID: 2, ProviderID: "Spotify", ProviderTrackID: "T2", Name: "Song Two", AlbumName: "Album", Artists: []string{"Artist"}},
		"Spotify/T3": {ID: 3, ProviderID: "Spotify", ProviderTrackID: "T3", Name: "Song Three", AlbumName: "Album", Artists: []string{"Artist"}},
	}}
	library := &fakeLibrary{items: map[string]jellyfin.Item{
		"item-1": {ID: "item-1", Name: "Song One", Album: "Album", Artists: []string{"Artist"}},
		"item-2": {ID: "item-2", Name: "Song Two", Album: "Album", Artists: []string{"Artist"}},
		"item-3": {ID: "item-3", Name: "Song Three", Album: "Album", Artists: []string{"Artist"}},
	}}

	wf := New(overrides, verified, cache, library, matching.LevelStrict, matching.CriterionTrackName|matching.CriterionArtists, nil)
	wf.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return wf, overrides, verified, cache
}

func TestAcceptBatchSuccess(t *testing.T) {
	wf, overrides, verified, cache := testFixture(t)

	results, err := wf.AcceptBatch(context.Background(), []Request{
		{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"},
	})
	if err != nil {
		t.Fatalf("AcceptBatch failed: %v", err)
	}
	if len(results) != 1 || !results[0].Accepted {
		t.Fatalf("unexpected results: %+v", results)
	}

	match, ok := verified.GetByKey("Spotify", "T1")
	if !ok {
		t.Fatal("verified match missing")
	}
	if !match.IsManualMatch {
		t.Error("IsManualMatch should be true")
	}
	if match.Level != matching.LevelStrict {
		t.Errorf("Level = %q, want configured Strict", match.Level)
	}
	if match.Notes != acceptedNote {
		t.Errorf("Notes = %q", match.Notes)
	}
	if match.VerifiedAt.Location() != time.UTC {
		t.Error("VerifiedAt should be UTC")
	}

	if overrides.Count() != 1 {
		t.Errorf("override count = %d, want 1", overrides.Count())
	}

	// Write-through uses the coarse "manual, all fields" record.
	if len(cache.recorded) != 1 || cache.recorded[0] != "item-1" {
		t.Errorf("RecordMatch calls = %v", cache.recorded)
	}
	if cache.recordLevels[0] != matching.LevelDefault {
		t.Errorf("write-through level = %q, want Default", cache.recordLevels[0])
	}
}

func TestAcceptBatchIsolation(t *testing.T) {
	wf, _, verified, _ := testFixture(t)

	results, err := wf.AcceptBatch(context.Background(), []Request{
		{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"},
		{ProviderID: "Spotify", ProviderTrackID: "T2", JellyfinTrackID: "missing-item"},
		{ProviderID: "Spotify", ProviderTrackID: "T3", JellyfinTrackID: "item-3"},
	})
	if err != nil {
		t.Fatalf("AcceptBatch failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("result count = %d, want 3", len(results))
	}
	if !results[0].Accepted || !results[2].Accepted {
		t.Errorf("items 1 and 3 should succeed: %+v", results)
	}
	if results[1].Accepted {
		t.Error("item 2 should fail")
	}
	if results[1].Reason != ReasonJellyfinTrackNotFound {
		t.Errorf("item 2 reason = %q, want %q", results[1].Reason, ReasonJellyfinTrackNotFound)
	}

	if _, ok := verified.GetByKey("Spotify", "T1"); !ok {
		t.Error("ledger missing entry for item 1")
	}
	if _, ok := verified.GetByKey("Spotify", "T2"); ok {
		t.Error("ledger should not contain entry for failed item 2")
	}
	if _, ok := verified.GetByKey("Spotify", "T3"); !ok {
		t.Error("ledger missing entry for item 3")
	}
}

func TestAcceptBatchProviderTrackNotFound(t *testing.T) {
	wf, _, _, _ := testFixture(t)

	results, err := wf.AcceptBatch(context.Background(), []Request{
		{ProviderID: "Spotify", ProviderTrackID: "unknown", JellyfinTrackID: "item-1"},
	})
	if err != nil {
		t.Fatalf("AcceptBatch failed: %v", err)
	}
	if results[0].Accepted {
		t.Error("expected failure")
	}
	if results[0].Reason != ReasonProviderTrackNotFound {
		t.Errorf("reason = %q, want %q", results[0].Reason, ReasonProviderTrackNotFound)
	}
}

func TestReplaceOnAccept(t *testing.T) {
	wf, overrides, verified, _ := testFixture(t)
	ctx := context.Background()

	if _, err := wf.AcceptBatch(ctx, []Request{{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := wf.AcceptBatch(ctx, []Request{{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-2"}}); err != nil {
		t.Fatal(err)
	}

	if verified.Count() != 1 {
		t.Fatalf("ledger count = %d, want 1", verified.Count())
	}
	match, _ := verified.GetByKey("Spotify", "T1")
	if match.JellyfinTrackID != "item-2" {
		t.Errorf("JellyfinTrackID = %q, want item-2", match.JellyfinTrackID)
	}
	if overrides.Count() != 1 {
		t.Errorf("override count = %d, want 1 (replace, not append)", overrides.Count())
	}
}

func TestAcceptBatchRecordMatchFailureIsBestEffort(t *testing.T) {
	wf, _, verified, cache := testFixture(t)
	cache.recordErr = errors.New("cache offline")

	results, err := wf.AcceptBatch(context.Background(), []Request{
		{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"},
	})
	if err != nil {
		t.Fatalf("AcceptBatch failed: %v", err)
	}
	if !results[0].Accepted {
		t.Error("cache write-through failure must not fail the item")
	}
	if verified.Count() != 1 {
		t.Error("ledger entry should still be recorded")
	}
}

func TestAcceptBatchPersistsStores(t *testing.T) {
	dir := t.TempDir()
	overridesPath := filepath.Join(dir, "manual_track_map.json")
	verifiedPath := filepath.Join(dir, "verified_matches.json")
	overrides := matchstore.NewOverrideStore(overridesPath, nil)
	verified := matchstore.NewVerifiedStore(verifiedPath, nil)
	cache := &fakeCache{tracks: map[string]provider.Track{
		"Spotify/T1": {ID: 1, ProviderID: "Spotify", ProviderTrackID: "T1", Name: "Song One"},
	}}
	library := &fakeLibrary{items: map[string]jellyfin.Item{"item-1": {ID: "item-1", Name: "Song One"}}}

	wf := New(overrides, verified, cache, library, matching.LevelDefault, matching.AllCriteria, nil)
	if _, err := wf.AcceptBatch(context.Background(), []Request{{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"}}); err != nil {
		t.Fatalf("AcceptBatch failed: %v", err)
	}

	freshVerified := matchstore.NewVerifiedStore(verifiedPath, nil)
	if err := freshVerified.Load(); err != nil {
		t.Fatal(err)
	}
	if freshVerified.Count() != 1 {
		t.Error("verified store was not persisted")
	}
	freshOverrides := matchstore.NewOverrideStore(overridesPath, nil)
	if err := freshOverrides.Load(); err != nil {
		t.Fatal(err)
	}
	if freshOverrides.Count() != 1 {
		t.Error("override store was not persisted")
	}
}

func TestAcceptBatchSaveFailureStillReportsResults(t *testing.T) {
	dir := t.TempDir()
	overrides := matchstore.NewOverrideStore(filepath.Join(dir, "manual_track_map.json"), nil)
	// A directory at the ledger path makes the final rename in Save fail.
	verifiedPath := filepath.Join(dir, "verified_matches.json")
	if err := os.MkdirAll(verifiedPath, 0o755); err != nil {
		t.Fatal(err)
	}
	verified := matchstore.NewVerifiedStore(verifiedPath, nil)

	cache := &fakeCache{tracks: map[string]provider.Track{
		"Spotify/T1": {ID: 1, ProviderID: "Spotify", ProviderTrackID: "T1", Name: "Song One"},
	}}
	library := &fakeLibrary{items: map[string]jellyfin.Item{"item-1": {ID: "item-1", Name: "Song One"}}}

	wf := New(overrides, verified, cache, library, matching.LevelDefault, matching.AllCriteria, nil)
	results, err := wf.AcceptBatch(context.Background(), []Request{
		{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"},
	})
	if err == nil {
		t.Fatal("expected a persist error when the ledger cannot be written")
	}
	if !strings.Contains(err.Error(), "persist match stores") {
		t.Errorf("error = %q, want it to report the failed persist", err)
	}
	if len(results) != 1 {
		t.Fatalf("result count = %d, want per-item results despite the persist error", len(results))
	}
	if !results[0].Accepted {
		t.Error("the item itself succeeded; only persistence failed")
	}
}

func TestAcceptBatchCancelledContext(t *testing.T) {
	wf, _, _, _ := testFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := wf.AcceptBatch(ctx, []Request{
		{ProviderID: "Spotify", ProviderTrackID: "T1", JellyfinTrackID: "item-1"},
	})
	if err != nil {
		t.Fatalf("cancellation is a per-item failure, not a batch error: %v", err)
	}
	if results[0].Accepted {
		t.Error("item should fail when the context is cancelled")
	}
}
