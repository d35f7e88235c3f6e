package predict

import (
	"encoding/json"
	"time"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/vnode"
)

// wirePattern is Pattern's JSON-visible shape. Timestamps are omitted
// on save and reset to "now" on load, per spec §6's persisted-state
// notes.
type wirePattern struct {
	Type         PatternType `json:"type"`
	Patches      []patch.Patch `json:"-"`
	RawPatches   json.RawMessage `json:"patches"`
	OldTree      *vnode.VNode `json:"old_tree"`
	NewTree      *vnode.VNode `json:"new_tree"`
	Observations int `json:"observations"`
	Attempted    int `json:"attempted"`
	Correct      int `json:"correct"`
	Incorrect    int `json:"incorrect"`
}

type wireSnapshot struct {
	Store map[string][]wirePattern `json:"store"`
}

// SaveToJSON serializes the store. Patch values are opaque to this
// package's JSON codec (patch.Patch has no custom marshaler defined
// here), so patches are round-tripped via their exported struct
// fields directly.
func (p *Predictor) SaveToJSON() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := wireSnapshot{Store: map[string][]wirePattern{}}
	for key, entries := range p.store {
		wp := make([]wirePattern, len(entries))
		for i, e := range entries {
			raw, err := json.Marshal(e.Patches)
			if err != nil {
				return nil, err
			}
			wp[i] = wirePattern{
				Type:         e.Type,
				RawPatches:   raw,
				OldTree:      e.OldTree,
				NewTree:      e.NewTree,
				Observations: e.Observations,
				Attempted:    e.Attempted,
				Correct:      e.Correct,
				Incorrect:    e.Incorrect,
			}
		}
		out.Store[key] = wp
	}
	return json.Marshal(out)
}

// LoadFromJSON replaces the store's contents with data, resetting
// every pattern's CreatedAt/LastAccessed to the current time.
func (p *Predictor) LoadFromJSON(data []byte) error {
	var in wireSnapshot
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	now := time.Now()
	store := map[string][]*Pattern{}
	for key, entries := range in.Store {
		patterns := make([]*Pattern, len(entries))
		for i, e := range entries {
			var patches []patch.Patch
			if err := json.Unmarshal(e.RawPatches, &patches); err != nil {
				return err
			}
			patterns[i] = &Pattern{
				Type:         e.Type,
				Patches:      patches,
				OldTree:      e.OldTree,
				NewTree:      e.NewTree,
				Observations: e.Observations,
				Attempted:    e.Attempted,
				Correct:      e.Correct,
				Incorrect:    e.Incorrect,
				CreatedAt:    now,
				LastAccessed: now,
			}
		}
		store[key] = patterns
	}

	p.mu.Lock()
	p.store = store
	p.mu.Unlock()
	return nil
}
