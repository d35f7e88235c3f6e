package vnode

import "github.com/vtreekit/vtree/internal/verrors"

// ValidationConfig bounds tree shape and size, per spec §6's default
// table. All limits are inclusive caps.
type ValidationConfig struct {
	MaxTreeDepth       int `yaml:"max_tree_depth" validate:"gt=0"`
	MaxNodeCount       int `yaml:"max_node_count" validate:"gt=0"`
	MaxChildrenPerNode int `yaml:"max_children_per_node" validate:"gt=0"`
	MaxPropKeyLength   int `yaml:"max_prop_key_length" validate:"gt=0"`
	MaxPropValueLength int `yaml:"max_prop_value_length" validate:"gt=0"`
	MaxTextLength      int `yaml:"max_text_length" validate:"gt=0"`
	MaxJSONSize        int `yaml:"max_json_size" validate:"gt=0"`
}

// DefaultValidationConfig returns the spec §6 default limits.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxTreeDepth:       100,
		MaxNodeCount:       10_000,
		MaxChildrenPerNode: 1_000,
		MaxPropKeyLength:   256,
		MaxPropValueLength: 4_096,
		MaxTextLength:      1 << 20,
		MaxJSONSize:        1 << 20,
	}
}

// Validate checks every invariant in spec §3 against cfg, returning
// the first violation found.
func Validate(n *VNode, cfg ValidationConfig) error {
	if n == nil {
		return &verrors.NullPointerError{Param: "vnode"}
	}
	if err := validateDepth(n, cfg, 1); err != nil {
		return err
	}
	count := CountNodes(n)
	if count > cfg.MaxNodeCount {
		return &verrors.TreeTooLargeError{Nodes: count, Max: cfg.MaxNodeCount}
	}
	return validateContentSizes(n, cfg)
}

func validateDepth(n *VNode, cfg ValidationConfig, depth int) error {
	if n == nil || n.Kind == KindNull {
		return nil
	}
	if depth > cfg.MaxTreeDepth {
		return &verrors.TreeTooDeepError{Depth: depth, Max: cfg.MaxTreeDepth}
	}
	if n.Kind != KindElement {
		return nil
	}
	if len(n.Children) > cfg.MaxChildrenPerNode {
		return &verrors.TooManyChildrenError{Count: len(n.Children), Max: cfg.MaxChildrenPerNode}
	}
	for _, c := range n.Children {
		if err := validateDepth(c, cfg, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// CountNodes counts every node including Null placeholders, matching
// original_source/src/validation.rs's count_nodes (Null counts as one
// node but contributes no depth).
func CountNodes(n *VNode) int {
	if n == nil {
		return 0
	}
	total := 1
	if n.Kind == KindElement {
		for _, c := range n.Children {
			total += CountNodes(c)
		}
	}
	return total
}

func validateContentSizes(n *VNode, cfg ValidationConfig) error {
	if n == nil || n.Kind == KindNull {
		return nil
	}
	switch n.Kind {
	case KindText:
		if len(n.Content) > cfg.MaxTextLength {
			return &verrors.TextTooLongError{Length: len(n.Content), Max: cfg.MaxTextLength}
		}
	case KindElement:
		for k, v := range n.Props {
			if len(k) > cfg.MaxPropKeyLength {
				return &verrors.PropertyTooLongError{Name: k, Length: len(k), Max: cfg.MaxPropKeyLength, Kind: verrors.PropertyKindKey}
			}
			if len(v) > cfg.MaxPropValueLength {
				return &verrors.PropertyTooLongError{Name: k, Length: len(v), Max: cfg.MaxPropValueLength, Kind: verrors.PropertyKindValue}
			}
		}
		for _, c := range n.Children {
			if err := validateContentSizes(c, cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// EstimateSize returns a heuristic byte-size estimate for n, used by
// the predictor's capacity enforcement. It is a lower bound on actual
// memory use (struct overhead is approximated, not measured).
func EstimateSize(n *VNode) int64 {
	if n == nil {
		return 0
	}
	const baseOverhead = 48
	size := int64(baseOverhead + len(n.Path) + len(n.Tag) + len(n.Content))
	if n.Key != nil {
		size += int64(len(*n.Key))
	}
	for k, v := range n.Props {
		size += int64(len(k) + len(v) + 16)
	}
	for _, c := range n.Children {
		size += EstimateSize(c)
	}
	return size
}
