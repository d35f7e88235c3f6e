// Package template implements the four template extractors described
// in spec.md §4.5: text-binding extraction, loop-template extraction,
// reorder-detection, and structural-template extraction.
package template

import (
	"fmt"
	"sort"
	"strings"
)

// StateValueMatch is one occurrence of a state value found inside
// rendered content, grounded on
// original_source/src/deep_state_traversal.rs's StateValueMatch.
type StateValueMatch struct {
	Path           string
	ValueStr       string
	ContentPosition int
}

// FindValueInState recursively searches state for search_value,
// returning every dot/bracket-notation path where it occurs.
func FindValueInState(state map[string]any, searchValue, prefix string) []string {
	var paths []string
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := state[key]
		currentPath := key
		if prefix != "" {
			currentPath = prefix + "." + key
		}
		paths = append(paths, matchValue(value, searchValue, currentPath)...)
	}
	return paths
}

func matchValue(value any, searchValue, path string) []string {
	switch v := value.(type) {
	case map[string]any:
		return FindValueInState(v, searchValue, path)
	case []any:
		var out []string
		for i, item := range v {
			indexed := fmt.Sprintf("%s[%d]", path, i)
			if nested, ok := item.(map[string]any); ok {
				out = append(out, FindValueInState(nested, searchValue, indexed)...)
				continue
			}
			if stringify(item) == searchValue {
				out = append(out, indexed)
			}
		}
		return out
	default:
		if stringify(v) == searchValue {
			return []string{path}
		}
	}
	return nil
}

// stringify renders a primitive JSON-like value the same way its Rust
// counterpart's to_string()/Display would, for value-equality
// purposes.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int:
		return fmt.Sprintf("%d", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CollectAllPrimitiveValues walks state recursively, building a
// reverse index from each primitive value's string form to every path
// where it appears (array paths suffixed "[i]"), mirroring
// collect_all_primitive_values.
func CollectAllPrimitiveValues(state map[string]any) map[string][]string {
	result := map[string][]string{}
	var traverse func(value any, path string)
	traverse = func(value any, path string) {
		switch v := value.(type) {
		case string:
			if v != "" {
				result[v] = append(result[v], path)
			}
		case bool, float64, int:
			s := stringify(v)
			result[s] = append(result[s], path)
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				next := k
				if path != "" {
					next = path + "." + k
				}
				traverse(v[k], next)
			}
		case []any:
			for i, item := range v {
				traverse(item, fmt.Sprintf("%s[%d]", path, i))
			}
		}
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		traverse(state[k], k)
	}
	return result
}

// FindStateValuesInContent finds every occurrence of every state
// value inside content, sorted leftmost-first with overlapping
// occurrences resolved in favor of the leftmost match. Mirrors
// find_state_values_in_content.
func FindStateValuesInContent(state map[string]any, content string) []StateValueMatch {
	valueMap := CollectAllPrimitiveValues(state)

	var matches []StateValueMatch
	keys := make([]string, 0, len(valueMap))
	for k := range valueMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, valueStr := range keys {
		if valueStr == "" {
			continue
		}
		paths := valueMap[valueStr]
		searchPos := 0
		for {
			idx := indexFrom(content, valueStr, searchPos)
			if idx < 0 {
				break
			}
			if len(paths) > 0 {
				matches = append(matches, StateValueMatch{
					Path:            paths[0],
					ValueStr:        valueStr,
					ContentPosition: idx,
				})
			}
			searchPos = idx + len(valueStr)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ContentPosition < matches[j].ContentPosition
	})

	var filtered []StateValueMatch
	lastEnd := 0
	for _, m := range matches {
		if m.ContentPosition >= lastEnd {
			lastEnd = m.ContentPosition + len(m.ValueStr)
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	idx := strings.Index(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}
