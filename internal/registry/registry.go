// Package registry tracks live predictor instances behind integer
// handles, the process-wide store spec.md §5 calls "predictor
// registry (handle → predictor instance)". Grounded on the teacher's
// registry.go (dual-indexed, RWMutex-guarded map of live objects) and
// internal/page/registry.go (capacity enforcement, Close semantics).
package registry

import (
	"sync"

	"github.com/vtreekit/vtree/internal/predict"
	"github.com/vtreekit/vtree/internal/verrors"
	"github.com/vtreekit/vtree/internal/vmetrics"
)

// Registry assigns and tracks integer handles for live predictors.
// Handle 0 is reserved to mean "no handle" per spec §6
// (predictor_new returns 0 on failure).
type Registry struct {
	mu       sync.RWMutex
	next     uint64
	byHandle map[uint64]*predict.Predictor
	maxLive  int
}

// New constructs an empty registry. maxLive <= 0 means unbounded.
func New(maxLive int) *Registry {
	return &Registry{byHandle: make(map[uint64]*predict.Predictor), maxLive: maxLive}
}

// Create allocates a new predictor under cfg and returns its handle.
func (r *Registry) Create(cfg predict.Config, m *vmetrics.Collector) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxLive > 0 && len(r.byHandle) >= r.maxLive {
		return 0, verrors.ErrPredictorFull
	}

	r.next++
	handle := r.next
	r.byHandle[handle] = predict.New(cfg, m)
	return handle, nil
}

// Get returns the predictor for handle, or ErrInvalidHandle.
func (r *Registry) Get(handle uint64) (*predict.Predictor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byHandle[handle]
	if !ok {
		return nil, verrors.ErrInvalidHandle
	}
	return p, nil
}

// Destroy removes handle from the registry, freeing its store. It is
// idempotent: destroying an unknown handle is a no-op success, mirroring
// the teacher's Unregister semantics.
func (r *Registry) Destroy(handle uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHandle, handle)
}

// Replace installs p under a freshly allocated handle, used by
// predictor_load to materialise a loaded snapshot as a new live
// instance per spec §6.
func (r *Registry) Replace(p *predict.Predictor) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	handle := r.next
	r.byHandle[handle] = p
	return handle
}

// Count returns the number of live predictor handles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHandle)
}
