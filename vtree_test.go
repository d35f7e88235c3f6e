package vtree

import "testing"

func TestReconcileTextUpdate(t *testing.T) {
	old := Elem("", "div", nil, Text("10000000", "Hello"))
	newTree := Elem("", "div", nil, Text("10000000", "World"))

	patches, err := Reconcile(old, newTree)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 1 || patches[0].Content != "World" {
		t.Fatalf("unexpected patches: %+v", patches)
	}
}

func TestPredictorLearnAndPredict(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	old := Elem("", "div", nil, Text("10000000", "Count: 0"))
	newTree := Elem("", "div", nil, Text("10000000", "Count: 1"))
	change := StateChange{ComponentID: "counter", StateKey: "count", OldValue: float64(0), NewValue: float64(1)}

	for i := 0; i < 10; i++ {
		if err := p.Learn(change, old, newTree); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}

	pred, ok := p.Predict(change, old)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if pred.Confidence < 0.9 {
		t.Fatalf("confidence = %f, want >= 0.9", pred.Confidence)
	}
}
