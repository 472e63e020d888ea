package main

import (
	"testing"

	"tunebridge/internal/testsupport"
)

func TestAcquireInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	release, err := acquireInstanceLock(cfg)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	if _, err := acquireInstanceLock(cfg); err == nil {
		t.Fatal("second lock should fail while the first is held")
	}

	release()
	release2, err := acquireInstanceLock(cfg)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	release2()
}
