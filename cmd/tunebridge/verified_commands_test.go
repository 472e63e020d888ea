package main

import (
	"testing"
	"time"

	"tunebridge/internal/matchstore"
)

func seedVerified(t *testing.T, env *cliTestEnv) {
	t.Helper()
	verified := matchstore.NewVerifiedStore(env.cfg.VerifiedPath(), nil)
	if err := verified.Add(matchstore.VerifiedMatch{
		ProviderID:      "Spotify",
		ProviderTrackID: "T1",
		JellyfinTrackID: "aabbccddeeff00112233445566778899",
		IsManualMatch:   true,
		VerifiedAt:      time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}
	if err := verified.Save(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifiedListAndRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	seedVerified(t, env)

	out, _, err := runCLI(t, []string{"verified", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("verified list: %v", err)
	}
	requireContains(t, out, "Spotify")
	requireContains(t, out, "T1")

	out, _, err = runCLI(t, []string{"verified", "remove", "Spotify", "T1"}, env.configPath)
	if err != nil {
		t.Fatalf("verified remove: %v", err)
	}
	requireContains(t, out, "Removed verified match")

	out, _, err = runCLI(t, []string{"verified", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("verified list after remove: %v", err)
	}
	requireContains(t, out, "No verified matches")
}

func TestVerifiedRemoveMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"verified", "remove", "Spotify", "nope"}, env.configPath); err == nil {
		t.Fatal("expected error for missing verified match")
	}
}

func TestVerifiedClearRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	seedVerified(t, env)

	if _, _, err := runCLI(t, []string{"verified", "clear"}, env.configPath); err == nil {
		t.Fatal("expected clear without --yes to fail")
	}

	out, _, err := runCLI(t, []string{"verified", "clear", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("verified clear: %v", err)
	}
	requireContains(t, out, "Removed 1 verified matches")
}
