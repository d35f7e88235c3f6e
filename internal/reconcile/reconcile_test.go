package reconcile

import (
	"testing"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/vnode"
)

func TestReconcileIdenticalTreesYieldsNoPatches(t *testing.T) {
	tree := vnode.Elem("", "div", nil, vnode.Text(vnode.ChildPath("", 0), "hi"))
	patches, err := Reconcile(tree, tree.Clone(), DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 0 {
		t.Fatalf("expected no patches for identical trees, got %v", patches)
	}
}

// Scenario A from spec §8: simple text update.
func TestScenarioATextUpdate(t *testing.T) {
	childPath := vnode.ChildPath("", 0)
	old := vnode.Elem("", "div", nil, vnode.Text(childPath, "Hello"))
	new := vnode.Elem("", "div", nil, vnode.Text(childPath, "World"))

	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 1 || patches[0].Kind != patch.KindUpdateText || patches[0].Content != "World" {
		t.Fatalf("unexpected patches: %+v", patches)
	}
}

// Scenario B from spec §8: prop update only.
func TestScenarioBPropUpdate(t *testing.T) {
	old := vnode.Elem("", "div", map[string]string{"class": "a"})
	new := vnode.Elem("", "div", map[string]string{"class": "b"})

	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 1 || patches[0].Kind != patch.KindUpdateProps || patches[0].Props["class"] != "b" {
		t.Fatalf("unexpected patches: %+v", patches)
	}
}

// Scenario C from spec §8: child insertion at end, no spurious UpdateText.
func TestScenarioCChildInsertion(t *testing.T) {
	aPath := vnode.ChildPath("", 0)
	old := vnode.Elem("", "div", nil, vnode.Text(aPath, "A"))
	new := vnode.Elem("", "div", nil, vnode.Text(aPath, "A"), vnode.Text(vnode.ChildPath("", 1), "B"))

	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 1 || patches[0].Kind != patch.KindCreate {
		t.Fatalf("expected a single Create patch, got %+v", patches)
	}
}

func TestReconcileKeyedReorder(t *testing.T) {
	keyA, keyB, keyC := "a", "b", "c"
	mk := func(path, key, content string) *vnode.VNode {
		n := vnode.Text(path, content)
		k := key
		n.Key = &k
		return n
	}
	old := vnode.Elem("", "ul", nil,
		mk(vnode.ChildPath("", 0), keyA, "A"),
		mk(vnode.ChildPath("", 1), keyB, "B"),
		mk(vnode.ChildPath("", 2), keyC, "C"),
	)
	new := vnode.Elem("", "ul", nil,
		mk(vnode.ChildPath("", 0), keyC, "C"),
		mk(vnode.ChildPath("", 1), keyB, "B"),
		mk(vnode.ChildPath("", 2), keyA, "A"),
	)

	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	var reorder *patch.Patch
	for i := range patches {
		if patches[i].Kind == patch.KindReorderChildren {
			reorder = &patches[i]
		}
	}
	if reorder == nil {
		t.Fatalf("expected a ReorderChildren patch, got %+v", patches)
	}
	want := []string{"c", "b", "a"}
	if len(reorder.Order) != len(want) {
		t.Fatalf("unexpected reorder: %v", reorder.Order)
	}
	for i, k := range want {
		if reorder.Order[i] != k {
			t.Fatalf("reorder.Order = %v, want %v", reorder.Order, want)
		}
	}
}

func TestReconcileKeyedRemoval(t *testing.T) {
	keyA, keyB := "a", "b"
	mk := func(path, key string) *vnode.VNode {
		n := vnode.Text(path, key)
		k := key
		n.Key = &k
		return n
	}
	old := vnode.Elem("", "ul", nil, mk(vnode.ChildPath("", 0), keyA), mk(vnode.ChildPath("", 1), keyB))
	new := vnode.Elem("", "ul", nil, mk(vnode.ChildPath("", 0), keyA))

	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	foundRemove := false
	for _, p := range patches {
		if p.Kind == patch.KindRemove {
			foundRemove = true
		}
	}
	if !foundRemove {
		t.Fatalf("expected a Remove patch, got %+v", patches)
	}
}

func TestReconcileTagChangeEmitsReplace(t *testing.T) {
	old := vnode.Elem("", "div", nil)
	new := vnode.Elem("", "span", nil)
	patches, err := Reconcile(old, new, DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(patches) != 1 || patches[0].Kind != patch.KindReplace {
		t.Fatalf("expected a single Replace patch, got %+v", patches)
	}
}
