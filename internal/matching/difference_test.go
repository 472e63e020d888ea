package matching

import (
	"reflect"
	"testing"

	"tunebridge/internal/jellyfin"
)

func sampleTrack() Track {
	return Track{
		Name:         "Echoes",
		AlbumName:    "Meddle",
		Artists:      []string{"Pink Floyd"},
		AlbumArtists: []string{"Pink Floyd"},
	}
}

func matchingItem() jellyfin.Item {
	return jellyfin.Item{
		ID:           "7c02229183c84f90a7ef422d4c1523ac",
		Name:         "echoes",
		Album:        "MEDDLE",
		Artists:      []string{"pink floyd"},
		AlbumArtists: []string{"Pink Floyd"},
	}
}

func TestDifferencesIdenticalTrack(t *testing.T) {
	if diffs := Differences(sampleTrack(), matchingItem()); len(diffs) != 0 {
		t.Errorf("case-insensitive identical track should have no differences, got %v", diffs)
	}
}

func TestDifferencesIdempotent(t *testing.T) {
	track := sampleTrack()
	item := matchingItem()
	item.Name = "Different"
	first := Differences(track, item)
	second := Differences(track, item)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls disagree: %v vs %v", first, second)
	}
}

func TestDifferencesFieldOrder(t *testing.T) {
	track := sampleTrack()
	item := jellyfin.Item{
		Name:         "Other Song",
		Album:        "Other Album",
		Artists:      []string{"Other Artist"},
		AlbumArtists: []string{"Other Artist"},
	}
	diffs := Differences(track, item)
	if len(diffs) != 4 {
		t.Fatalf("diff count = %d, want 4", len(diffs))
	}
	order := []Criteria{CriterionTrackName, CriterionAlbumName, CriterionArtists, CriterionAlbumArtists}
	for i, want := range order {
		if diffs[i].Criterion != want {
			t.Errorf("diffs[%d].Criterion = %v, want %v", i, diffs[i].Criterion, want)
		}
	}
}

func TestDifferencesArtistListJoinedInOrder(t *testing.T) {
	track := sampleTrack()
	track.Artists = []string{"A", "B"}
	item := matchingItem()
	item.Artists = []string{"B", "A"}

	diffs := Differences(track, item)
	if len(diffs) != 1 {
		t.Fatalf("diff count = %d, want 1 (order-sensitive artist comparison)", len(diffs))
	}
	if diffs[0].Criterion != CriterionArtists {
		t.Errorf("Criterion = %v", diffs[0].Criterion)
	}
	if diffs[0].ProviderValue != "A, B" || diffs[0].JellyfinValue != "B, A" {
		t.Errorf("joined values = %q / %q", diffs[0].ProviderValue, diffs[0].JellyfinValue)
	}
}

func TestDifferencesMissingAlbumTreatedAsEmpty(t *testing.T) {
	track := sampleTrack()
	item := matchingItem()
	item.Album = ""

	diffs := Differences(track, item)
	if len(diffs) != 1 {
		t.Fatalf("diff count = %d, want 1", len(diffs))
	}
	if diffs[0].Criterion != CriterionAlbumName {
		t.Errorf("Criterion = %v", diffs[0].Criterion)
	}
	if diffs[0].JellyfinValue != "" {
		t.Errorf("missing album should compare as empty, got %q", diffs[0].JellyfinValue)
	}
}
