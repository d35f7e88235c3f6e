package template

import (
	"strconv"
	"strings"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/vnode"
)

// StateChange mirrors spec §3's StateChange shape: a single observed
// state mutation.
type StateChange struct {
	ComponentID string
	StateKey    string
	OldValue    any
	NewValue    any
}

// ExtractStructuralTemplate builds a ReplaceConditional patch when the
// state change is a Bool/Bool or String/String value pair whose
// associated replacement is structurally different, per
// structural_template_extraction.rs's extract_structural_template.
// Returns ok=false when the change does not qualify.
func ExtractStructuralTemplate(change StateChange, path string, oldNode, newNode *vnode.VNode) (p *patch.Patch, ok bool) {
	if !sameScalarKind(change.OldValue, change.NewValue) {
		return nil, false
	}
	if !IsStructuralChange(oldNode, newNode) {
		return nil, false
	}

	branches := map[string]*vnode.VNode{
		serializeConditionValue(change.OldValue): oldNode,
		serializeConditionValue(change.NewValue): newNode,
	}

	patchOut := patch.Patch{
		Kind: patch.KindReplaceConditional,
		Path: path,
		StructuralTemplate: &patch.StructuralTemplate{
			ConditionBinding: change.StateKey,
			Branches:         branches,
		},
	}
	return &patchOut, true
}

func sameScalarKind(a, b any) bool {
	switch a.(type) {
	case bool:
		_, ok := b.(bool)
		return ok
	case string:
		_, ok := b.(string)
		return ok
	default:
		return false
	}
}

// IsStructuralChange reports whether replacing oldNode with newNode
// is a "structural" change (as opposed to a simple content update),
// per structural_template_extraction.rs's is_structural_change:
//   - Text<->Element is always structural.
//   - Text/Text is structural iff neither string contains the other.
//   - Element/Element is structural if tags differ, or (same nonzero
//     child count) the first child's text/element-ness differs, or one
//     side has zero children while the other doesn't, or the
//     child-count delta exceeds 50% of the larger count.
func IsStructuralChange(oldNode, newNode *vnode.VNode) bool {
	if oldNode == nil || newNode == nil {
		return oldNode != newNode
	}
	oldIsText := oldNode.Kind == vnode.KindText
	newIsText := newNode.Kind == vnode.KindText
	if oldIsText != newIsText {
		return true
	}
	if oldIsText && newIsText {
		return !strings.Contains(oldNode.Content, newNode.Content) && !strings.Contains(newNode.Content, oldNode.Content)
	}

	// Both elements.
	if oldNode.Tag != newNode.Tag {
		return true
	}
	oldCount, newCount := len(oldNode.Children), len(newNode.Children)
	if oldCount > 0 && newCount > 0 && oldCount == newCount {
		oldFirstText := oldNode.Children[0] != nil && oldNode.Children[0].Kind == vnode.KindText
		newFirstText := newNode.Children[0] != nil && newNode.Children[0].Kind == vnode.KindText
		if oldFirstText != newFirstText {
			return true
		}
	}
	if (oldCount == 0) != (newCount == 0) {
		return true
	}
	maxCount := oldCount
	if newCount > maxCount {
		maxCount = newCount
	}
	if maxCount > 0 {
		delta := oldCount - newCount
		if delta < 0 {
			delta = -delta
		}
		if float64(delta) > 0.5*float64(maxCount) {
			return true
		}
	}
	return false
}

// serializeConditionValue renders a condition value the way
// serialize_condition_value does: bools as "true"/"false", strings
// verbatim, numbers via their decimal form, anything else via a
// best-effort string form.
func serializeConditionValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return stringify(t)
	}
}

// EnhanceStructuralTemplate adds a new branch to an existing
// StructuralTemplate if its condition key is not already present,
// mirroring enhance_structural_template.
func EnhanceStructuralTemplate(tmpl *patch.StructuralTemplate, value any, node *vnode.VNode) {
	key := serializeConditionValue(value)
	if _, exists := tmpl.Branches[key]; exists {
		return
	}
	if tmpl.Branches == nil {
		tmpl.Branches = map[string]*vnode.VNode{}
	}
	tmpl.Branches[key] = node
}
