package template

import (
	"testing"

	"github.com/vtreekit/vtree/internal/patch"
)

func TestInferOrderingRuleDetectsReverse(t *testing.T) {
	old := []map[string]any{{"id": "a"}, {"id": "b"}, {"id": "c"}}
	new := []map[string]any{{"id": "c"}, {"id": "b"}, {"id": "a"}}
	rule, ok := InferOrderingRule(old, new)
	if !ok || rule.Kind != patch.OrderReverse {
		t.Fatalf("expected Reverse, got %+v ok=%v", rule, ok)
	}
}

func TestInferOrderingRuleDetectsAscendingSort(t *testing.T) {
	old := []map[string]any{{"name": "Charlie"}, {"name": "Alice"}, {"name": "Bob"}}
	new := []map[string]any{{"name": "Alice"}, {"name": "Bob"}, {"name": "Charlie"}}
	rule, ok := InferOrderingRule(old, new)
	if !ok || rule.Kind != patch.OrderSortByProperty || rule.Property != "name" || !rule.Ascending {
		t.Fatalf("expected ascending sort by name, got %+v ok=%v", rule, ok)
	}
}

func TestInferOrderingRuleDetectsDescendingSort(t *testing.T) {
	old := []map[string]any{{"score": float64(1)}, {"score": float64(3)}, {"score": float64(2)}}
	new := []map[string]any{{"score": float64(3)}, {"score": float64(2)}, {"score": float64(1)}}
	rule, ok := InferOrderingRule(old, new)
	if !ok || rule.Kind != patch.OrderSortByProperty || rule.Property != "score" || rule.Ascending {
		t.Fatalf("expected descending sort by score, got %+v ok=%v", rule, ok)
	}
}

func TestInferOrderingRuleFallsBackToCustom(t *testing.T) {
	old := []map[string]any{{"key": "x", "v": float64(2)}, {"key": "y", "v": float64(1)}}
	new := []map[string]any{{"key": "z", "v": float64(9)}, {"key": "x", "v": float64(2)}}
	rule, ok := InferOrderingRule(old, new)
	if !ok || rule.Kind != patch.OrderCustom {
		t.Fatalf("expected Custom fallback, got %+v ok=%v", rule, ok)
	}
}

func TestInferOrderingRuleRejectsLengthMismatch(t *testing.T) {
	old := []map[string]any{{"id": "a"}}
	new := []map[string]any{{"id": "a"}, {"id": "b"}}
	if _, ok := InferOrderingRule(old, new); ok {
		t.Fatal("expected reorder detection to refuse a length mismatch")
	}
}
