// Package predict implements the predictive pattern store described
// in spec.md §4.3: learn/predict/predict_hint/verify_prediction/stats
// plus capacity enforcement and eviction, grounded on
// original_source/src/predictor.rs.
package predict

import (
	"sync"
	"time"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/reconcile"
	"github.com/vtreekit/vtree/internal/template"
	"github.com/vtreekit/vtree/internal/vmetrics"
	"github.com/vtreekit/vtree/internal/vnode"
)

// EvictionPolicy selects the capacity-eviction strategy.
type EvictionPolicy int

const (
	EvictionLFU EvictionPolicy = iota
	EvictionLRU
	EvictionOldestFirst
)

// Config bounds a Predictor's behaviour, mirroring spec §6's defaults.
type Config struct {
	MinConfidence     float64
	MaxPatternsPerKey int
	MaxStateKeys      int
	MaxMemoryBytes    int64
	Eviction          EvictionPolicy
	Validation        vnode.ValidationConfig
}

// DefaultConfig returns spec §6's predictor defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence:     0.7,
		MaxPatternsPerKey: 100,
		MaxStateKeys:      1_000,
		MaxMemoryBytes:    100 << 20,
		Eviction:          EvictionLFU,
		Validation:        vnode.DefaultValidationConfig(),
	}
}

// StateChange mirrors spec §3's StateChange shape.
type StateChange struct {
	ComponentID string
	StateKey    string
	OldValue    any
	NewValue    any
}

func (s StateChange) key() string { return s.ComponentID + "::" + s.StateKey }

func (s StateChange) toTemplate() template.StateChange {
	return template.StateChange{ComponentID: s.ComponentID, StateKey: s.StateKey, OldValue: s.OldValue, NewValue: s.NewValue}
}

// PatternType classifies the kind of value transition a pattern was
// learned from.
type PatternType int

const (
	PatternLiteral PatternType = iota
	PatternNumericIncrement
	PatternNumericDecrement
	PatternBooleanToggle
)

// Pattern is one stored observation, keyed implicitly by the
// containing store entry's component_id::state_key.
type Pattern struct {
	Type        PatternType
	Patches     []patch.Patch
	OldTree     *vnode.VNode
	NewTree     *vnode.VNode
	Observations int
	CreatedAt   time.Time
	LastAccessed time.Time
	Attempted   int
	Correct     int
	Incorrect   int
}

// Prediction is the result of a successful predict call.
type Prediction struct {
	StateChange     StateChange
	PredictedPatches []patch.Patch
	Confidence      float64
	PredictedTree   *vnode.VNode
}

// Stats is the predictor-wide snapshot returned by Stats().
type Stats struct {
	UniqueStateKeys    int
	TotalPatterns      int
	TotalObservations  int
	PredictionsMade    int
	PredictionsCorrect int
	PredictionsIncorrect int
	HitRate            float64
	AverageConfidence   float64
	EstimatedMemoryBytes int64
	ByKey               map[string]KeyStats
}

// KeyStats is supplemental per-key detail (SPEC_FULL.md §12).
type KeyStats struct {
	DominantType PatternType
	HitRate      float64
}

// Predictor is a self-contained pattern store guarded by its own
// lock; the registry package assigns it a handle.
type Predictor struct {
	cfg     Config
	metrics *vmetrics.Collector

	mu      sync.Mutex
	store   map[string][]*Pattern
	lastConfidenceSum float64
	lastConfidenceCount int
}

// New constructs a Predictor bound to cfg, recording metrics via m
// (may be nil to disable metrics recording).
func New(cfg Config, m *vmetrics.Collector) *Predictor {
	return &Predictor{cfg: cfg, metrics: m, store: map[string][]*Pattern{}}
}

// ClassifyPatternType implements spec §4.3's classifier rules.
func ClassifyPatternType(oldValue, newValue any) PatternType {
	if ob, ok := oldValue.(bool); ok {
		if nb, ok := newValue.(bool); ok && ob != nb {
			return PatternBooleanToggle
		}
	}
	of, oOk := asFloat(oldValue)
	nf, nOk := asFloat(newValue)
	if oOk && nOk {
		switch {
		case nf > of:
			return PatternNumericIncrement
		case nf < of:
			return PatternNumericDecrement
		}
	}
	return PatternLiteral
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// shapeOf returns the patch-kind discriminant sequence used for
// shape-equivalence matching.
func shapeOf(patches []patch.Patch) []patch.Kind {
	kinds := make([]patch.Kind, len(patches))
	for i, p := range patches {
		kinds[i] = p.Kind
	}
	return kinds
}

func shapesEqual(a, b []patch.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Learn observes one (state-change, old-tree, new-tree) triple: it
// reconciles old against new, classifies the change, and inserts or
// reinforces a matching pattern. Trees are defensively cloned before
// storage.
func (p *Predictor) Learn(change StateChange, oldTree, newTree *vnode.VNode) error {
	return p.LearnWithState(change, oldTree, newTree, nil)
}

// LearnWithState is Learn plus an optional full-state snapshot used
// to attempt template generalization (text-binding extraction needs
// the surrounding state object to find which value produced the
// observed content, per spec §4.5). A nil allState skips that
// generalization step but otherwise behaves identically to Learn.
func (p *Predictor) LearnWithState(change StateChange, oldTree, newTree *vnode.VNode, allState map[string]any) error {
	start := time.Now()
	patches, err := reconcile.Reconcile(oldTree, newTree, reconcile.Config{Validation: p.cfg.Validation})
	if err != nil {
		p.record(func() { p.metrics.RecordLearn(true) })
		return err
	}
	patches = generalize(change, oldTree, newTree, patches, allState)

	patternType := ClassifyPatternType(change.OldValue, change.NewValue)
	shape := shapeOf(patches)

	p.mu.Lock()
	key := change.key()
	entries := p.store[key]
	var matched *Pattern
	for _, e := range entries {
		if e.Type == patternType && shapesEqual(shapeOf(e.Patches), shape) {
			matched = e
			break
		}
	}
	now := time.Now()
	if matched != nil {
		matched.Observations++
		matched.LastAccessed = now
		matched.NewTree = newTree.Clone()
		matched.OldTree = oldTree.Clone()
	} else {
		entries = append(entries, &Pattern{
			Type:        patternType,
			Patches:     patches,
			OldTree:     oldTree.Clone(),
			NewTree:     newTree.Clone(),
			Observations: 1,
			CreatedAt:   now,
			LastAccessed: now,
		})
		p.store[key] = entries
	}
	p.enforceCapacityLocked()
	p.mu.Unlock()

	p.record(func() {
		p.metrics.RecordLearn(false)
		p.metrics.RecordReconcile(time.Since(start), len(patches), false)
	})
	return nil
}

func (p *Predictor) record(f func()) {
	if p.metrics != nil {
		f()
	}
}

// Predict classifies change, looks up a matching learned pattern, and
// falls back to built-in heuristics when no learned pattern clears
// MinConfidence. Returns ok=false if no prediction (learned or
// heuristic) is available.
func (p *Predictor) Predict(change StateChange, currentTree *vnode.VNode) (pred Prediction, ok bool) {
	start := time.Now()
	defer func() {
		p.record(func() { p.metrics.RecordPrediction(time.Since(start), ok) })
	}()

	patternType := ClassifyPatternType(change.OldValue, change.NewValue)

	p.mu.Lock()
	key := change.key()
	entries := p.store[key]
	var best *Pattern
	var sameTypeTotal int
	for _, e := range entries {
		if e.Type == patternType {
			sameTypeTotal += e.Observations
			if best == nil || e.Observations > best.Observations {
				best = e
			}
		}
	}
	if best != nil {
		best.Attempted++
		best.LastAccessed = time.Now()
	}
	p.mu.Unlock()

	if best != nil && sameTypeTotal > 0 {
		confidence := float64(best.Observations) / float64(sameTypeTotal)
		if confidence >= p.cfg.MinConfidence {
			return Prediction{
				StateChange:     change,
				PredictedPatches: adaptPatches(best.Patches),
				Confidence:      confidence,
				PredictedTree:   best.NewTree,
			}, true
		}
	}

	return p.heuristicPredict(change, currentTree)
}

// PredictHint is the single-change variant of Predict decorated with
// a caller-supplied hint identifier for observability (see
// DESIGN.md's Open Question 4 for why this differs from the
// original's multi-change FFI signature).
func (p *Predictor) PredictHint(hintID, componentID string, change StateChange, currentTree *vnode.VNode) (Prediction, bool) {
	return p.Predict(change, currentTree)
}

// adaptPatches returns the stored patches unmodified (a defensive
// copy). Spec §4.3/§9 require this remain a no-op.
func adaptPatches(patches []patch.Patch) []patch.Patch {
	out := make([]patch.Patch, len(patches))
	copy(out, patches)
	return out
}

// VerifyPrediction compares predictedTree against actualTree and
// updates the best matching pattern's correctness counters. Returns
// the comparison outcome.
func (p *Predictor) VerifyPrediction(change StateChange, predictedTree, actualTree *vnode.VNode) bool {
	matched := predictedTree.Equal(actualTree)

	patternType := ClassifyPatternType(change.OldValue, change.NewValue)
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.store[change.key()]
	var best *Pattern
	for _, e := range entries {
		if e.Type == patternType && (best == nil || e.Observations > best.Observations) {
			best = e
		}
	}
	if best != nil {
		if matched {
			best.Correct++
		} else {
			best.Incorrect++
		}
	}
	return matched
}

// Stats returns a snapshot of the predictor's internal bookkeeping.
func (p *Predictor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		totalPatterns, totalObservations int
		predictionsMade, correct, incorrect int
		memory int64
	)
	byKey := map[string]KeyStats{}
	for key, entries := range p.store {
		var dominant *Pattern
		var keyAttempted, keyCorrect int
		for _, e := range entries {
			totalPatterns++
			totalObservations += e.Observations
			predictionsMade += e.Attempted
			correct += e.Correct
			incorrect += e.Incorrect
			keyAttempted += e.Attempted
			keyCorrect += e.Correct
			memory += estimateSize(e)
			if dominant == nil || e.Observations > dominant.Observations {
				dominant = e
			}
		}
		var keyHitRate float64
		if keyAttempted > 0 {
			keyHitRate = float64(keyCorrect) / float64(keyAttempted)
		}
		if dominant != nil {
			byKey[key] = KeyStats{DominantType: dominant.Type, HitRate: keyHitRate}
		}
	}

	var hitRate float64
	if predictionsMade > 0 {
		hitRate = float64(correct) / float64(predictionsMade)
	}

	return Stats{
		UniqueStateKeys:      len(p.store),
		TotalPatterns:        totalPatterns,
		TotalObservations:    totalObservations,
		PredictionsMade:      predictionsMade,
		PredictionsCorrect:   correct,
		PredictionsIncorrect: incorrect,
		HitRate:              hitRate,
		AverageConfidence:    averageConfidence(p.store),
		EstimatedMemoryBytes: memory,
		ByKey:                byKey,
	}
}

func averageConfidence(store map[string][]*Pattern) float64 {
	var sum float64
	var count int
	for _, entries := range store {
		byType := map[PatternType]int{}
		for _, e := range entries {
			byType[e.Type] += e.Observations
		}
		for _, e := range entries {
			total := byType[e.Type]
			if total == 0 {
				continue
			}
			sum += float64(e.Observations) / float64(total)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// estimateSize is a heuristic byte-size estimate for one pattern,
// documented as a lower bound on actual RSS (DESIGN.md Open Question
// 3).
func estimateSize(p *Pattern) int64 {
	const baseOverhead = 96
	size := int64(baseOverhead)
	size += vnode.EstimateSize(p.OldTree)
	size += vnode.EstimateSize(p.NewTree)
	for _, pt := range p.Patches {
		size += 64
		if pt.Node != nil {
			size += vnode.EstimateSize(pt.Node)
		}
		size += int64(len(pt.Content) + len(pt.Path))
	}
	return size
}
