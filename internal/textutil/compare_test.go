package textutil

import "testing"

func TestFoldEquals(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Track Name", "track name", true},
		{"TRACK", "track", true},
		{"Straße", "STRASSE", true},
		{"Track", "Track ", false},
		{"", "", true},
		{"a", "b", false},
	}
	for _, tc := range cases {
		if got := FoldEquals(tc.a, tc.b); got != tc.want {
			t.Errorf("FoldEquals(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestJoinNames(t *testing.T) {
	if got := JoinNames([]string{"Alpha", "Beta"}); got != "Alpha, Beta" {
		t.Errorf("JoinNames = %q", got)
	}
	if got := JoinNames(nil); got != "" {
		t.Errorf("JoinNames(nil) = %q, want empty", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short input should be unchanged, got %q", got)
	}
	if got := TruncateRunes("hello", 3); got != "hel" {
		t.Errorf("TruncateRunes = %q, want %q", got, "hel")
	}
	if got := TruncateRunes("héllo wörld", 6); got != "héllo " {
		t.Errorf("multi-byte truncation = %q", got)
	}
	if got := TruncateRunes("hello", 0); got != "" {
		t.Errorf("zero max should return empty, got %q", got)
	}
}
