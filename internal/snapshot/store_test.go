package snapshot

import (
	"context"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	payload := []byte(`{"store":{}}`)
	if err := s.Save(ctx, "counter-demo", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "counter-demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("Load = %q, want %q", got, payload)
	}
}

func TestSaveOverwritesExistingLabel(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, "a", []byte("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "a", []byte("second")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("Load = %q, want %q", got, "second")
	}
}

func TestLabelsListsAllSavedLabels(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, label := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, label, []byte("x")); err != nil {
			t.Fatalf("Save %s: %v", label, err)
		}
	}
	labels, err := s.Labels(ctx)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	if len(labels) != 3 {
		t.Fatalf("got %d labels, want 3", len(labels))
	}
}

func TestDeleteRemovesLabel(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, "a", []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "a"); err == nil {
		t.Fatal("expected an error loading a deleted label")
	}
}

func TestDeleteUnknownLabelIsNoOp(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if err := s.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
