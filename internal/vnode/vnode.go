// Package vnode implements the virtual-node data model: the closed
// Element/Text/Null tagged union, hex-segment path identity, and the
// validation rules bounding tree shape and size.
package vnode

import "sort"

// Kind discriminates the three VNode variants.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindNull
)

// VNode is the closed tagged union described in spec.md §3. Exactly
// one of the kind-specific fields is meaningful, selected by Kind.
type VNode struct {
	Kind Kind

	// Element fields.
	Tag      string
	Props    map[string]string
	Children []*VNode // a nil element of Children represents a conditional null slot
	Key      *string

	// Text fields.
	Content string

	Path string
}

// Elem constructs an Element VNode.
func Elem(path, tag string, props map[string]string, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Path: path, Tag: tag, Props: props, Children: children}
}

// ElemKeyed constructs a keyed Element VNode.
func ElemKeyed(path, tag string, key string, props map[string]string, children ...*VNode) *VNode {
	k := key
	return &VNode{Kind: KindElement, Path: path, Tag: tag, Props: props, Children: children, Key: &k}
}

// Text constructs a Text VNode.
func Text(path, content string) *VNode {
	return &VNode{Kind: KindText, Path: path, Content: content}
}

// Null constructs a Null placeholder VNode.
func Null(path string) *VNode {
	return &VNode{Kind: KindNull, Path: path}
}

// Equal performs a deep structural comparison, ignoring nothing. Paths
// are compared because two subtrees at different positions are not
// interchangeable for patch-emission purposes.
func (n *VNode) Equal(o *VNode) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Path != o.Path {
		return false
	}
	switch n.Kind {
	case KindText:
		return n.Content == o.Content
	case KindNull:
		return true
	case KindElement:
		if n.Tag != o.Tag {
			return false
		}
		if !keysEqual(n.Key, o.Key) {
			return false
		}
		if !propsEqual(n.Props, o.Props) {
			return false
		}
		if len(n.Children) != len(o.Children) {
			return false
		}
		for i := range n.Children {
			if !n.Children[i].Equal(o.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func keysEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
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

// Clone returns a defensive deep copy, per spec §9's ownership rule
// that every tree handed to the predictor must be copied.
func (n *VNode) Clone() *VNode {
	if n == nil {
		return nil
	}
	c := &VNode{Kind: n.Kind, Tag: n.Tag, Content: n.Content, Path: n.Path}
	if n.Key != nil {
		k := *n.Key
		c.Key = &k
	}
	if n.Props != nil {
		c.Props = make(map[string]string, len(n.Props))
		for k, v := range n.Props {
			c.Props[k] = v
		}
	}
	if n.Children != nil {
		c.Children = make([]*VNode, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// SortedPropKeys returns the element's property keys in sorted order,
// for callers that need a stable iteration order over Props.
func (n *VNode) SortedPropKeys() []string {
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
