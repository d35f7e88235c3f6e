package vnode

import (
	"encoding/json"

	"github.com/vtreekit/vtree/internal/verrors"
)

// wireNode is the JSON-visible shape of VNode. Kind is spelled out so
// the wire format stays stable independent of the Kind enum's integer
// values.
type wireNode struct {
	Kind     string      `json:"kind"`
	Tag      string      `json:"tag,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*wireNode `json:"children,omitempty"`
	Key      *string     `json:"key,omitempty"`
	Content  string      `json:"content,omitempty"`
	Path     string      `json:"path"`
}

func kindToWire(k Kind) string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

func kindFromWire(s string) Kind {
	switch s {
	case "element":
		return KindElement
	case "text":
		return KindText
	default:
		return KindNull
	}
}

func toWire(n *VNode) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{Kind: kindToWire(n.Kind), Tag: n.Tag, Props: n.Props, Key: n.Key, Content: n.Content, Path: n.Path}
	if n.Children != nil {
		w.Children = make([]*wireNode, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = toWire(c)
		}
	}
	return w
}

func fromWire(w *wireNode) *VNode {
	if w == nil {
		return nil
	}
	n := &VNode{Kind: kindFromWire(w.Kind), Tag: w.Tag, Props: w.Props, Key: w.Key, Content: w.Content, Path: w.Path}
	if w.Children != nil {
		n.Children = make([]*VNode, len(w.Children))
		for i, c := range w.Children {
			n.Children[i] = fromWire(c)
		}
	}
	return n
}

// MarshalJSON implements json.Marshaler via the wire shape.
func (n *VNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(n))
}

// UnmarshalJSON implements json.Unmarshaler via the wire shape.
func (n *VNode) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return &verrors.SerializationError{Message: err.Error()}
	}
	*n = *fromWire(&w)
	return nil
}

// DeserializeSafe parses data into a VNode after checking its raw
// byte length against cfg.MaxJSONSize and, once parsed, validating
// the resulting tree — mirroring original_source/src/validation.rs's
// deserialize_vnode_safe, which rejects oversized payloads before
// paying the cost of a full parse.
func DeserializeSafe(data []byte, cfg ValidationConfig) (*VNode, error) {
	if len(data) > cfg.MaxJSONSize {
		return nil, &verrors.JSONTooLargeError{Size: len(data), Max: cfg.MaxJSONSize}
	}
	var n VNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, &verrors.SerializationError{Message: err.Error()}
	}
	if err := Validate(&n, cfg); err != nil {
		return nil, err
	}
	return &n, nil
}

// SerializeSafe marshals n and checks the resulting payload against
// cfg.MaxJSONSize.
func SerializeSafe(n *VNode, cfg ValidationConfig) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, &verrors.SerializationError{Message: err.Error()}
	}
	if len(data) > cfg.MaxJSONSize {
		return nil, &verrors.JSONTooLargeError{Size: len(data), Max: cfg.MaxJSONSize}
	}
	return data, nil
}
