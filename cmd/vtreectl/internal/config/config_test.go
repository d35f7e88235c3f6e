package config

import "testing"

func TestSetConfigPathRoundTrip(t *testing.T) {
	SetConfigPath("/tmp/does-not-exist.yaml")
	defer SetConfigPath("")

	if Path() != "/tmp/does-not-exist.yaml" {
		t.Fatalf("Path() = %q", Path())
	}
	if Exists() {
		t.Fatal("Exists() should be false for a nonexistent path")
	}
}

func TestExistsFalseWhenUnset(t *testing.T) {
	SetConfigPath("")
	if Exists() {
		t.Fatal("Exists() should be false with no path set")
	}
}
