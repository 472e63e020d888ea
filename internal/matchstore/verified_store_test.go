package matchstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tunebridge/internal/matching"
)

func testMatch(providerTrackID, itemID string) VerifiedMatch {
	return VerifiedMatch{
		ProviderID:      "Spotify",
		ProviderTrackID: providerTrackID,
		JellyfinTrackID: itemID,
		Level:           matching.LevelDefault,
		Criteria:        matching.AllCriteria,
		IsManualMatch:   true,
		VerifiedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Notes:           "test entry",
	}
}

func newTestVerifiedStore(t *testing.T) *VerifiedStore {
	t.Helper()
	return NewVerifiedStore(filepath.Join(t.TempDir(), "verified_matches.json"), nil)
}

func TestVerifiedAddReplacesDuplicateKey(t *testing.T) {
	store := newTestVerifiedStore(t)

	if err := store.Add(testMatch("T1", "item-a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(testMatch("T2", "item-b")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(testMatch("T1", "item-c")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if store.Count() != 2 {
		t.Fatalf("Count = %d, want 2 (duplicate key must replace)", store.Count())
	}
	entry, ok := store.GetByKey("Spotify", "T1")
	if !ok {
		t.Fatal("GetByKey failed after replace")
	}
	if entry.JellyfinTrackID != "item-c" {
		t.Errorf("JellyfinTrackID = %q, want item-c (last write wins)", entry.JellyfinTrackID)
	}
}

func TestVerifiedAddValidatesEntry(t *testing.T) {
	store := newTestVerifiedStore(t)
	if err := store.Add(VerifiedMatch{}); err == nil {
		t.Error("expected error for empty match")
	}
	incomplete := testMatch("T1", "item-a")
	incomplete.JellyfinTrackID = ""
	if err := store.Add(incomplete); err == nil {
		t.Error("expected error for missing jellyfin track id")
	}
}

func TestVerifiedSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified_matches.json")
	store := NewVerifiedStore(path, nil)

	want := []VerifiedMatch{testMatch("T1", "item-a"), testMatch("T2", "item-b"), testMatch("T3", "item-c")}
	for _, match := range want {
		if err := store.Add(match); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh := NewVerifiedStore(path, nil)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := fresh.All()
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("entry %d mismatch:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestVerifiedLoadMissingFileIsEmptySuccess(t *testing.T) {
	store := newTestVerifiedStore(t)
	if err := store.Load(); err != nil {
		t.Fatalf("Load against missing file should succeed: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("Count = %d, want 0", store.Count())
	}
}

func TestVerifiedFailedLoadIsNonDestructive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified_matches.json")
	store := NewVerifiedStore(path, nil)

	for _, id := range []string{"T1", "T2", "T3"} {
		if err := store.Add(testMatch(id, "item-"+id)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err == nil {
		t.Fatal("Load against corrupt file should fail")
	}
	if store.Count() != 3 {
		t.Errorf("Count after failed load = %d, want 3 (must not clear in-memory state)", store.Count())
	}
}

func TestVerifiedRemove(t *testing.T) {
	store := newTestVerifiedStore(t)
	match := testMatch("T1", "item-a")
	if err := store.Add(match); err != nil {
		t.Fatal(err)
	}

	if !store.Remove(match) {
		t.Error("Remove by full value should report true")
	}
	if store.Remove(match) {
		t.Error("second Remove should report false, not error")
	}

	if err := store.Add(match); err != nil {
		t.Fatal(err)
	}
	if !store.RemoveByKey("Spotify", "T1") {
		t.Error("RemoveByKey should report true")
	}
	if store.RemoveByKey("Spotify", "T1") {
		t.Error("RemoveByKey on absent key should report false")
	}
}

func TestVerifiedGetByItem(t *testing.T) {
	store := newTestVerifiedStore(t)
	store.Add(testMatch("T1", "shared-item"))
	store.Add(testMatch("T2", "shared-item"))
	store.Add(testMatch("T3", "other-item"))

	matches := store.GetByItem("shared-item")
	if len(matches) != 2 {
		t.Errorf("GetByItem = %d entries, want 2", len(matches))
	}
	if len(store.GetByItem("unknown")) != 0 {
		t.Error("GetByItem for unknown item should be empty")
	}
}

func TestVerifiedAllIsDefensiveCopy(t *testing.T) {
	store := newTestVerifiedStore(t)
	store.Add(testMatch("T1", "item-a"))

	snapshot := store.All()
	snapshot[0].JellyfinTrackID = "mutated"

	entry, _ := store.GetByKey("Spotify", "T1")
	if entry.JellyfinTrackID != "item-a" {
		t.Error("mutating the snapshot must not affect the live collection")
	}
}

func TestVerifiedClearKeepsFileUntilSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified_matches.json")
	store := NewVerifiedStore(path, nil)
	store.Add(testMatch("T1", "item-a"))
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	store.Clear()
	if store.Count() != 0 {
		t.Fatal("Clear should empty the collection")
	}

	fresh := NewVerifiedStore(path, nil)
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if fresh.Count() != 1 {
		t.Error("Clear must not touch the backing file before Save")
	}

	if err := store.Save(); err != nil {
		t.Fatal(err)
	}
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if fresh.Count() != 0 {
		t.Error("Save after Clear should persist the empty collection")
	}
}

func TestVerifiedUniquenessUnderAddSequences(t *testing.T) {
	store := newTestVerifiedStore(t)
	keys := []string{"T1", "T2", "T1", "T3", "T2", "T1"}
	distinct := map[string]struct{}{}
	for i, key := range keys {
		distinct[key] = struct{}{}
		if err := store.Add(testMatch(key, "item")); err != nil {
			t.Fatalf("Add %d failed: %v", i, err)
		}
		if store.Count() > len(distinct) {
			t.Fatalf("after %d adds Count = %d exceeds %d distinct keys", i+1, store.Count(), len(distinct))
		}
	}
	if store.Count() != len(distinct) {
		t.Errorf("Count = %d, want %d", store.Count(), len(distinct))
	}
}
