package registry

import (
	"errors"
	"testing"

	"github.com/vtreekit/vtree/internal/predict"
	"github.com/vtreekit/vtree/internal/verrors"
)

func TestCreateGetDestroy(t *testing.T) {
	r := New(0)
	handle, err := r.Create(predict.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if handle == 0 {
		t.Fatal("expected a non-zero handle")
	}

	if _, err := r.Get(handle); err != nil {
		t.Fatalf("Get: %v", err)
	}

	r.Destroy(handle)
	if _, err := r.Get(handle); !errors.Is(err, verrors.ErrInvalidHandle) {
		t.Fatalf("Get after Destroy: got %v, want ErrInvalidHandle", err)
	}
}

func TestDestroyUnknownHandleIsNoOp(t *testing.T) {
	r := New(0)
	r.Destroy(999) // must not panic
}

func TestCreateRespectsMaxLive(t *testing.T) {
	r := New(1)
	if _, err := r.Create(predict.DefaultConfig(), nil); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := r.Create(predict.DefaultConfig(), nil); !errors.Is(err, verrors.ErrPredictorFull) {
		t.Fatalf("second Create: got %v, want ErrPredictorFull", err)
	}
}

func TestHandlesAreUnique(t *testing.T) {
	r := New(0)
	a, _ := r.Create(predict.DefaultConfig(), nil)
	b, _ := r.Create(predict.DefaultConfig(), nil)
	if a == b {
		t.Fatal("expected distinct handles")
	}
}

func TestReplaceInstallsUnderFreshHandle(t *testing.T) {
	r := New(0)
	p := predict.New(predict.DefaultConfig(), nil)
	handle := r.Replace(p)
	got, err := r.Get(handle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != p {
		t.Fatal("expected the same predictor instance back")
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
}
