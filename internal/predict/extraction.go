package predict

import (
	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/template"
	"github.com/vtreekit/vtree/internal/vnode"
)

// generalize attempts to replace a concrete patch sequence with a
// template-patch form when the observation is a good candidate, per
// spec §4.5. It never changes the sequence's shape-equivalence class
// for patches it declines to generalize.
func generalize(change StateChange, oldTree, newTree *vnode.VNode, patches []patch.Patch, allState map[string]any) []patch.Patch {
	if len(patches) != 1 {
		return patches
	}

	switch patches[0].Kind {
	case patch.KindReplace:
		target := findPath(oldTree, patches[0].Path)
		if target == nil {
			return patches
		}
		if p, ok := template.ExtractStructuralTemplate(change.toTemplate(), patches[0].Path, target, patches[0].Node); ok {
			return []patch.Patch{*p}
		}

	case patch.KindUpdateText:
		if allState == nil {
			return patches
		}
		if tp, ok := template.ExtractTextTemplate(allState, patches[0].Content); ok {
			return []patch.Patch{{Kind: patch.KindUpdateTextTemplate, Path: patches[0].Path, TemplatePatch: tp}}
		}
	}
	return patches
}

func findPath(root *vnode.VNode, path string) *vnode.VNode {
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
