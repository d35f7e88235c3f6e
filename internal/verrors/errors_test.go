package verrors

import (
	"errors"
	"testing"
)

func TestCodeOfSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{&TreeTooDeepError{Depth: 101, Max: 100}, CodeTreeTooDeep},
		{&TreeTooLargeError{Nodes: 20000, Max: 10000}, CodeTreeTooLarge},
		{&PropertyTooLongError{Name: "class", Length: 300, Max: 256, Kind: PropertyKindKey}, CodePropertyTooLong},
		{&KeyNotFoundError{Key: "comp::counter"}, CodeKeyNotFound},
		{nil, CodeSuccess},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Errorf("CodeOf(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestUnwrapMatchesSentinel(t *testing.T) {
	err := &TreeTooDeepError{Depth: 5, Max: 3}
	if !errors.Is(err, ErrTreeTooDeep) {
		t.Fatal("expected errors.Is to match ErrTreeTooDeep")
	}
}

func TestPropertyTooLongMessageDistinguishesKind(t *testing.T) {
	key := &PropertyTooLongError{Name: "class", Length: 300, Max: 256, Kind: PropertyKindKey}
	val := &PropertyTooLongError{Name: "class", Length: 300, Max: 256, Kind: PropertyKindValue}
	if key.Error() == val.Error() {
		t.Fatal("expected key and value messages to differ")
	}
}
