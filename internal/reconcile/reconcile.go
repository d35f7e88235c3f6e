// Package reconcile implements the two-tree diff described in
// spec.md §4.1: given an old and a new virtual-DOM tree, it emits the
// minimal ordered patch sequence that transforms one into the other.
package reconcile

import (
	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/vnode"
)

// Config bounds the trees accepted by Reconcile.
type Config struct {
	Validation vnode.ValidationConfig
}

// DefaultConfig returns spec §6's default validation limits.
func DefaultConfig() Config {
	return Config{Validation: vnode.DefaultValidationConfig()}
}

// Reconcile diffs old against new and returns the ordered patch
// sequence that transforms old into new. Both trees are validated
// against cfg before diffing.
func Reconcile(old, new *vnode.VNode, cfg Config) ([]patch.Patch, error) {
	if err := vnode.Validate(old, cfg.Validation); err != nil {
		return nil, err
	}
	if err := vnode.Validate(new, cfg.Validation); err != nil {
		return nil, err
	}
	var out []patch.Patch
	diffNode(old, new, &out)
	return out, nil
}

// ReconcileWithConfig is an explicit alias kept for API parity with
// the original's reconcile/reconcile_with_config pairing — Reconcile
// already takes a Config, so this simply forwards.
func ReconcileWithConfig(old, new *vnode.VNode, cfg Config) ([]patch.Patch, error) {
	return Reconcile(old, new, cfg)
}

func diffNode(old, new *vnode.VNode, out *[]patch.Patch) {
	// The equality check is pulled into a named value rather than
	// inlined into the branch condition: under some compilers the
	// inlined form was observed to be eliminated entirely, silently
	// skipping the fast path (spec's "Heisenbug" note).
	equal := old.Equal(new)
	if equal {
		return
	}

	if old == nil || new == nil {
		emitReplace(old, new, out)
		return
	}

	switch {
	case old.Kind == vnode.KindNull && new.Kind == vnode.KindNull:
		return
	case old.Kind == vnode.KindText && new.Kind == vnode.KindText:
		*out = append(*out, patch.UpdateText(new.Path, new.Content))
		return
	case old.Kind == vnode.KindElement && new.Kind == vnode.KindElement && old.Tag == new.Tag:
		if !propsEqual(old.Props, new.Props) {
			*out = append(*out, patch.UpdateProps(new.Path, new.Props))
		}
		diffChildren(old, new, out)
		return
	default:
		emitReplace(old, new, out)
	}
}

func emitReplace(old, new *vnode.VNode, out *[]patch.Patch) {
	switch {
	case new == nil || new.Kind == vnode.KindNull:
		if old != nil && old.Kind != vnode.KindNull {
			*out = append(*out, patch.Remove(old.Path))
		}
	case old == nil || old.Kind == vnode.KindNull:
		*out = append(*out, patch.Create(new.Path, new))
	default:
		*out = append(*out, patch.Replace(new.Path, new))
	}
}

func propsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func diffChildren(old, new *vnode.VNode, out *[]patch.Patch) {
	anyKeyed := false
	for _, c := range old.Children {
		if c != nil && c.Key != nil {
			anyKeyed = true
			break
		}
	}
	if !anyKeyed {
		for _, c := range new.Children {
			if c != nil && c.Key != nil {
				anyKeyed = true
				break
			}
		}
	}

	if anyKeyed {
		diffChildrenKeyed(old, new, out)
	} else {
		diffChildrenByPath(old, new, out)
	}
}

func diffChildrenKeyed(old, new *vnode.VNode, out *[]patch.Patch) {
	oldByKey := map[string]*vnode.VNode{}
	var oldUnkeyed []*vnode.VNode
	for _, c := range old.Children {
		if c == nil {
			continue
		}
		if c.Key != nil {
			oldByKey[*c.Key] = c
		} else {
			oldUnkeyed = append(oldUnkeyed, c)
		}
	}

	newByKey := map[string]bool{}
	unkeyedIdx := 0
	var newKeyOrder []string
	var firstKeyedPath string

	for _, nc := range new.Children {
		if nc == nil {
			continue
		}
		if nc.Key != nil {
			if len(newKeyOrder) == 0 {
				firstKeyedPath = nc.Path
			}
			newByKey[*nc.Key] = true
			newKeyOrder = append(newKeyOrder, *nc.Key)
			if oc, ok := oldByKey[*nc.Key]; ok {
				diffNode(oc, nc, out)
			} else {
				*out = append(*out, patch.Create(nc.Path, nc))
			}
		} else {
			if unkeyedIdx < len(oldUnkeyed) {
				diffNode(oldUnkeyed[unkeyedIdx], nc, out)
				unkeyedIdx++
			} else {
				*out = append(*out, patch.Create(nc.Path, nc))
			}
		}
	}

	for key, oc := range oldByKey {
		if !newByKey[key] {
			*out = append(*out, patch.Remove(oc.Path))
		}
	}

	if len(newKeyOrder) > 0 {
		*out = append(*out, patch.ReorderChildren(vnode.ParentPath(firstKeyedPath), newKeyOrder))
	}
}

func diffChildrenByPath(old, new *vnode.VNode, out *[]patch.Patch) {
	oldByPath := map[string]*vnode.VNode{}
	for _, c := range old.Children {
		if c != nil {
			oldByPath[c.Path] = c
		}
	}
	newByPath := map[string]bool{}

	for _, nc := range new.Children {
		if nc == nil {
			continue
		}
		newByPath[nc.Path] = true
		if oc, ok := oldByPath[nc.Path]; ok {
			diffNode(oc, nc, out)
		} else if nc.Kind != vnode.KindNull {
			*out = append(*out, patch.Create(nc.Path, nc))
		}
	}

	for p, oc := range oldByPath {
		if !newByPath[p] && oc.Kind != vnode.KindNull {
			*out = append(*out, patch.Remove(oc.Path))
		}
	}
}
