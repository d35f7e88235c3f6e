package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSONFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReconcileCommandPrintsPatches(t *testing.T) {
	dir := t.TempDir()
	old := writeJSONFile(t, dir, "old.json", `{"kind":"element","tag":"div","path":"","children":[{"kind":"text","content":"Hello","path":"10000000"}]}`)
	newP := writeJSONFile(t, dir, "new.json", `{"kind":"element","tag":"div","path":"","children":[{"kind":"text","content":"World","path":"10000000"}]}`)

	if err := Reconcile([]string{"--old", old, "--new", newP}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
}

func TestReconcileCommandRequiresBothFlags(t *testing.T) {
	if err := Reconcile([]string{"--old", "x.json"}); err == nil {
		t.Fatal("expected an error when --new is missing")
	}
}

func TestReconcileCommandRejectsUnknownFlag(t *testing.T) {
	if err := Reconcile([]string{"--bogus", "x"}); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}
