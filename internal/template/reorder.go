package template

import (
	"fmt"

	"github.com/vtreekit/vtree/internal/patch"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var collator = collate.New(language.Und)

// InferOrderingRule determines the OrderingRule that reproduces
// newItems' order from oldItems, preferring Reverse, then an
// ascending/descending sort by some shared property, then falling
// back to Custom. Mirrors
// original_source/src/reorder_detection.rs's detection order.
// Returns ok=false if oldItems and newItems have different lengths
// (reorder detection does not apply to insertions/removals).
func InferOrderingRule(oldItems, newItems []map[string]any) (rule patch.OrderingRule, ok bool) {
	if len(oldItems) != len(newItems) || len(oldItems) == 0 {
		return patch.OrderingRule{}, false
	}

	if isReversed(oldItems, newItems) {
		return patch.OrderingRule{Kind: patch.OrderReverse}, true
	}

	if prop, asc, found := detectSortByProperty(oldItems, newItems); found {
		return patch.OrderingRule{Kind: patch.OrderSortByProperty, Property: prop, Ascending: asc}, true
	}

	return patch.OrderingRule{Kind: patch.OrderCustom, KeyOrder: extractKeyOrder(newItems)}, true
}

func isReversed(oldItems, newItems []map[string]any) bool {
	n := len(oldItems)
	for i := 0; i < n; i++ {
		if !mapsEqual(oldItems[i], newItems[n-1-i]) {
			return false
		}
	}
	return true
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || stringify(v) != stringify(bv) {
			return false
		}
	}
	return true
}

// detectSortByProperty tests every property present on the first old
// item, checking whether sorting oldItems ascending or descending by
// that property (using collation for strings, numeric comparison for
// numbers, boolean ordering for bools) reproduces newItems exactly.
func detectSortByProperty(oldItems, newItems []map[string]any) (property string, ascending bool, found bool) {
	if len(oldItems) == 0 {
		return "", false, false
	}
	for prop := range oldItems[0] {
		if sortedMatches(oldItems, newItems, prop, true) {
			return prop, true, true
		}
		if sortedMatches(oldItems, newItems, prop, false) {
			return prop, false, true
		}
	}
	return "", false, false
}

func sortedMatches(oldItems, newItems []map[string]any, prop string, ascending bool) bool {
	sorted := make([]map[string]any, len(oldItems))
	copy(sorted, oldItems)
	less := func(i, j int) bool {
		c := compareValues(sorted[i][prop], sorted[j][prop])
		if ascending {
			return c < 0
		}
		return c > 0
	}
	insertionSort(sorted, less)
	for i := range sorted {
		if !mapsEqual(sorted[i], newItems[i]) {
			return false
		}
	}
	return true
}

func insertionSort(items []map[string]any, less func(i, j int) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// compareValues compares two property values: strings via a
// locale-aware collator (golang.org/x/text/collate), numbers
// numerically, booleans with false < true, and falls back to string
// comparison for mixed/unknown types.
func compareValues(a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return collator.CompareString(as, bs)
		}
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			if ab == bb {
				return 0
			}
			if !ab && bb {
				return -1
			}
			return 1
		}
	}
	return collator.CompareString(stringify(a), stringify(b))
}

func extractKeyOrder(items []map[string]any) []string {
	order := make([]string, len(items))
	for i, item := range items {
		if k, ok := item["key"]; ok {
			order[i] = stringify(k)
		} else {
			order[i] = fmt.Sprintf("%d", i)
		}
	}
	return order
}
