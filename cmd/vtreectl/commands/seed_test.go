package commands

import (
	"path/filepath"
	"testing"
)

func TestSeedGeneratesObservations(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "seed.db")

	if err := Seed([]string{"--count", "5", "--key", "counter.count", "--db", dbPath, "--label", "demo"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}

func TestSeedRejectsBadCount(t *testing.T) {
	if err := Seed([]string{"--count", "not-a-number"}); err == nil {
		t.Fatal("expected an error for a non-numeric --count")
	}
}
