package predict

import (
	"testing"

	"github.com/vtreekit/vtree/internal/vnode"
)

func counterTree(value string) *vnode.VNode {
	return vnode.Elem("", "div", nil, vnode.Text(vnode.ChildPath("", 0), "Count: "+value))
}

func TestClassifyPatternType(t *testing.T) {
	if got := ClassifyPatternType(float64(0), float64(1)); got != PatternNumericIncrement {
		t.Fatalf("got %v, want NumericIncrement", got)
	}
	if got := ClassifyPatternType(float64(5), float64(2)); got != PatternNumericDecrement {
		t.Fatalf("got %v, want NumericDecrement", got)
	}
	if got := ClassifyPatternType(false, true); got != PatternBooleanToggle {
		t.Fatalf("got %v, want BooleanToggle", got)
	}
	if got := ClassifyPatternType("a", "b"); got != PatternLiteral {
		t.Fatalf("got %v, want Literal", got)
	}
}

// Scenario D from spec §8: numeric increment heuristic, fresh predictor.
func TestScenarioDNumericHeuristic(t *testing.T) {
	p := New(DefaultConfig(), nil)
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}
	current := counterTree("0")

	pred, ok := p.Predict(change, current)
	if !ok {
		t.Fatal("expected a heuristic prediction")
	}
	if pred.Confidence != 0.85 {
		t.Fatalf("confidence = %f, want 0.85", pred.Confidence)
	}
	if len(pred.PredictedPatches) != 1 || pred.PredictedPatches[0].Content != "Count: 1" {
		t.Fatalf("unexpected patches: %+v", pred.PredictedPatches)
	}
}

// Scenario E from spec §8: learned pattern dominates after repetition.
func TestScenarioELearnedPatternDominates(t *testing.T) {
	p := New(DefaultConfig(), nil)
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}
	old := counterTree("0")
	new := counterTree("1")

	for i := 0; i < 10; i++ {
		if err := p.Learn(change, old, new); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}

	pred, ok := p.Predict(change, old)
	if !ok {
		t.Fatal("expected a learned prediction")
	}
	if pred.Confidence < 0.9 {
		t.Fatalf("confidence = %f, want >= 0.9", pred.Confidence)
	}
}

func TestVerifyPredictionUpdatesCounters(t *testing.T) {
	p := New(DefaultConfig(), nil)
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}
	old := counterTree("0")
	new := counterTree("1")
	if err := p.Learn(change, old, new); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	pred, ok := p.Predict(change, old)
	if !ok {
		t.Fatal("expected a prediction")
	}
	match := p.VerifyPrediction(change, pred.PredictedTree, new)
	if !match {
		t.Fatal("expected predicted tree to match actual tree")
	}
	stats := p.Stats()
	if stats.PredictionsCorrect != 1 {
		t.Fatalf("PredictionsCorrect = %d, want 1", stats.PredictionsCorrect)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := New(DefaultConfig(), nil)
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}
	old := counterTree("0")
	new := counterTree("1")
	if err := p.Learn(change, old, new); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	data, err := p.SaveToJSON()
	if err != nil {
		t.Fatalf("SaveToJSON: %v", err)
	}

	p2 := New(DefaultConfig(), nil)
	if err := p2.LoadFromJSON(data); err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}

	s1, s2 := p.Stats(), p2.Stats()
	if s1.TotalObservations != s2.TotalObservations || s1.TotalPatterns != s2.TotalPatterns {
		t.Fatalf("stats mismatch after round trip: %+v vs %+v", s1, s2)
	}
}

func TestCapacityEvictsKeysUnderPressure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxStateKeys = 2
	p := New(cfg, nil)

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		change := StateChange{ComponentID: "comp", StateKey: key, OldValue: float64(0), NewValue: float64(1)}
		old := counterTree("0")
		new := counterTree("1")
		if err := p.Learn(change, old, new); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}

	stats := p.Stats()
	if stats.UniqueStateKeys > cfg.MaxStateKeys {
		t.Fatalf("UniqueStateKeys = %d, expected eviction to keep it near %d", stats.UniqueStateKeys, cfg.MaxStateKeys)
	}
}

func TestAdaptPatchesIsNoOp(t *testing.T) {
	p := New(DefaultConfig(), nil)
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}
	old := counterTree("0")
	new := counterTree("1")
	if err := p.Learn(change, old, new); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	pred, ok := p.Predict(change, old)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if !pred.PredictedTree.Equal(new) {
		t.Fatal("expected predicted_tree == actual new tree per the adapt_patches no-op contract")
	}
}
