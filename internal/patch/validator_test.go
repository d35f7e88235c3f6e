package patch

import (
	"testing"

	"github.com/vtreekit/vtree/internal/vnode"
)

func TestValidatePatchUpdateTextRequiresTextTarget(t *testing.T) {
	tree := vnode.Elem("", "div", nil, vnode.Text(vnode.ChildPath("", 0), "hi"))
	cfg := DefaultValidatorConfig()

	ok := UpdateText(vnode.ChildPath("", 0), "bye")
	if err := ValidatePatch(ok, tree, cfg); err != nil {
		t.Fatalf("expected valid UpdateText, got %v", err)
	}

	bad := UpdateText("", "bye")
	if err := ValidatePatch(bad, tree, cfg); err == nil {
		t.Fatal("expected error updating text on an element root")
	}
}

func TestValidatePatchCreateAllowsAppend(t *testing.T) {
	tree := vnode.Elem("", "div", nil, vnode.Text(vnode.ChildPath("", 0), "a"))
	cfg := DefaultValidatorConfig()
	p := Create(vnode.ChildPath("", 1), vnode.Text(vnode.ChildPath("", 1), "b"))
	if err := ValidatePatch(p, tree, cfg); err != nil {
		t.Fatalf("expected append-create to validate, got %v", err)
	}
}

func TestValidatePatchReorderRequiresKnownKeys(t *testing.T) {
	keyA, keyB := "a", "b"
	tree := vnode.Elem("", "ul", nil,
		&vnode.VNode{Kind: vnode.KindElement, Tag: "li", Path: vnode.ChildPath("", 0), Key: &keyA},
		&vnode.VNode{Kind: vnode.KindElement, Tag: "li", Path: vnode.ChildPath("", 1), Key: &keyB},
	)
	cfg := DefaultValidatorConfig()

	good := ReorderChildren("", []string{"b", "a"})
	if err := ValidatePatch(good, tree, cfg); err != nil {
		t.Fatalf("expected valid reorder, got %v", err)
	}

	bad := ReorderChildren("", []string{"b", "missing"})
	if err := ValidatePatch(bad, tree, cfg); err == nil {
		t.Fatal("expected error reordering with an unknown key")
	}
}

func TestValidatePatchesStopsAtFirstError(t *testing.T) {
	tree := vnode.Text("", "hi")
	cfg := DefaultValidatorConfig()
	patches := []Patch{UpdateText("", "bye"), UpdateProps("", map[string]string{"a": "b"})}
	if err := ValidatePatches(patches, tree, cfg); err == nil {
		t.Fatal("expected error from the second patch (UpdateProps on a Text node)")
	}
}

func TestGetNodeAtPath(t *testing.T) {
	inner := vnode.Text(vnode.ChildPath(vnode.ChildPath("", 0), 1), "leaf")
	tree := vnode.Elem("", "div", nil, vnode.Elem(vnode.ChildPath("", 0), "span", nil, vnode.Text(vnode.ChildPath(vnode.ChildPath("", 0), 0), "x"), inner))
	got := GetNodeAtPath(tree, inner.Path)
	if got == nil || got.Content != "leaf" {
		t.Fatalf("GetNodeAtPath did not resolve inner node: %+v", got)
	}
}
