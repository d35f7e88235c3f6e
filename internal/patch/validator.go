package patch

import (
	"strings"

	"github.com/vtreekit/vtree/internal/verrors"
	"github.com/vtreekit/vtree/internal/vnode"
)

// ValidatorConfig bounds patch-path shape, mirroring the depth/index
// caps used for tree validation.
type ValidatorConfig struct {
	MaxPathDepth   int
	MaxPathSegment int
}

// DefaultValidatorConfig returns sane defaults aligned with
// vnode.DefaultValidationConfig's tree-depth and children caps.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{MaxPathDepth: 100, MaxPathSegment: 1_000}
}

// ValidatePath checks path's shape only (depth and per-segment index
// bound), without requiring a tree to check it against.
func ValidatePath(path string, cfg ValidatorConfig) error {
	if path == "" {
		return nil
	}
	segs := strings.Split(path, ".")
	if len(segs) > cfg.MaxPathDepth {
		return &verrors.TreeTooDeepError{Depth: len(segs), Max: cfg.MaxPathDepth}
	}
	indices, ok := vnode.IndexPath(path)
	if !ok {
		return &verrors.InvalidPatchPathError{Path: path}
	}
	for _, idx := range indices {
		if idx < 0 || idx > cfg.MaxPathSegment {
			return &verrors.InvalidPatchPathError{Path: path}
		}
	}
	return nil
}

// GetNodeAtPath walks root to the node identified by path, returning
// nil if any segment along the way does not resolve to an element
// with enough children, or resolves to a Null/Text node before the
// path is exhausted.
func GetNodeAtPath(root *vnode.VNode, path string) *vnode.VNode {
	if path == "" {
		return root
	}
	indices, ok := vnode.IndexPath(path)
	if !ok {
		return nil
	}
	cur := root
	for _, idx := range indices {
		if cur == nil || cur.Kind != vnode.KindElement || idx < 0 || idx >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[idx]
	}
	return cur
}

// ValidatePatch checks path shape and, when tree is non-nil, the
// patch's applicability against it, per spec §4.2's per-variant rules.
func ValidatePatch(p Patch, tree *vnode.VNode, cfg ValidatorConfig) error {
	if err := ValidatePath(p.Path, cfg); err != nil {
		return err
	}
	if tree == nil {
		return nil
	}

	switch p.Kind {
	case KindUpdateText:
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindText, p.Kind)

	case KindUpdateProps, KindUpdateAttributeStatic:
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindElement, p.Kind)

	case KindCreate:
		parentPath := vnode.ParentPath(p.Path)
		parent := GetNodeAtPath(tree, parentPath)
		if parent == nil || parent.Kind != vnode.KindElement {
			return &verrors.InvalidPatchPathError{Path: p.Path}
		}
		indices, ok := vnode.IndexPath(p.Path)
		if !ok || len(indices) == 0 {
			return &verrors.InvalidPatchPathError{Path: p.Path}
		}
		lastIdx := indices[len(indices)-1]
		if lastIdx > len(parent.Children) {
			return &verrors.InvalidPatchPathError{Path: p.Path}
		}
		return nil

	case KindRemove, KindReplace:
		target := GetNodeAtPath(tree, p.Path)
		if target == nil {
			return &verrors.InvalidPatchPathError{Path: p.Path}
		}
		return nil

	case KindReorderChildren:
		target := GetNodeAtPath(tree, p.Path)
		if err := requireKind(target, vnode.KindElement, p.Kind); err != nil {
			return err
		}
		present := map[string]bool{}
		for _, c := range target.Children {
			if c != nil && c.Key != nil {
				present[*c.Key] = true
			}
		}
		for _, k := range p.Order {
			if !present[k] {
				return &verrors.InvalidPatchPathError{Path: p.Path}
			}
		}
		return nil

	case KindUpdateTextTemplate:
		if p.TemplatePatch == nil || p.TemplatePatch.Template == "" || len(p.TemplatePatch.Bindings) == 0 {
			return &verrors.InvalidVNodeError{Reason: "empty template or bindings"}
		}
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindText, p.Kind)

	case KindUpdatePropsTemplate:
		if p.TemplatePatch == nil || p.TemplatePatch.Template == "" {
			return &verrors.InvalidVNodeError{Reason: "empty template"}
		}
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindElement, p.Kind)

	case KindUpdateAttributeDynamic:
		if p.TemplatePatch == nil || p.TemplatePatch.Template == "" {
			return &verrors.InvalidVNodeError{Reason: "empty template"}
		}
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindElement, p.Kind)

	case KindUpdateListTemplate:
		if p.LoopTemplate == nil || p.LoopTemplate.ArrayBinding == "" || p.LoopTemplate.ItemTemplate == nil {
			return &verrors.InvalidVNodeError{Reason: "empty loop template"}
		}
		target := GetNodeAtPath(tree, p.Path)
		return requireKind(target, vnode.KindElement, p.Kind)

	case KindReorderTemplate:
		if p.ReorderTemplate == nil || p.ReorderTemplate.ArrayBinding == "" {
			return &verrors.InvalidVNodeError{Reason: "empty reorder template"}
		}
		return nil

	case KindReplaceConditional:
		if p.StructuralTemplate == nil || p.StructuralTemplate.ConditionBinding == "" || len(p.StructuralTemplate.Branches) == 0 {
			return &verrors.InvalidVNodeError{Reason: "empty structural template"}
		}
		return nil
	}
	return nil
}

func requireKind(n *vnode.VNode, want vnode.Kind, patchKind Kind) error {
	if n == nil {
		return &verrors.InvalidPatchPathError{Path: ""}
	}
	if n.Kind != want {
		return &verrors.PatchTypeMismatchError{Expected: kindName(want), Found: kindName(n.Kind)}
	}
	return nil
}

func kindName(k vnode.Kind) string {
	switch k {
	case vnode.KindElement:
		return "Element"
	case vnode.KindText:
		return "Text"
	default:
		return "Null"
	}
}

// ValidatePatches validates a whole patch sequence in order.
func ValidatePatches(patches []Patch, tree *vnode.VNode, cfg ValidatorConfig) error {
	for _, p := range patches {
		if err := ValidatePatch(p, tree, cfg); err != nil {
			return err
		}
	}
	return nil
}
