// Package patch defines the closed Patch variant set and the
// template-patch shapes (TemplatePatch, LoopTemplate, ReorderTemplate,
// StructuralTemplate) that the predictor and its extractors produce.
package patch

import "github.com/vtreekit/vtree/internal/vnode"

// Kind discriminates the 13 closed Patch variants. Dispatch on Patch
// values must always switch on Kind, never on Go type assertions,
// per spec §9's "dispatch by tag" requirement.
type Kind int

const (
	KindCreate Kind = iota
	KindRemove
	KindReplace
	KindUpdateText
	KindUpdateProps
	KindReorderChildren
	KindUpdateTextTemplate
	KindUpdatePropsTemplate
	KindUpdateListTemplate
	KindReorderTemplate
	KindReplaceConditional
	KindUpdateAttributeStatic
	KindUpdateAttributeDynamic
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "Create"
	case KindRemove:
		return "Remove"
	case KindReplace:
		return "Replace"
	case KindUpdateText:
		return "UpdateText"
	case KindUpdateProps:
		return "UpdateProps"
	case KindReorderChildren:
		return "ReorderChildren"
	case KindUpdateTextTemplate:
		return "UpdateTextTemplate"
	case KindUpdatePropsTemplate:
		return "UpdatePropsTemplate"
	case KindUpdateListTemplate:
		return "UpdateListTemplate"
	case KindReorderTemplate:
		return "ReorderTemplate"
	case KindReplaceConditional:
		return "ReplaceConditional"
	case KindUpdateAttributeStatic:
		return "UpdateAttributeStatic"
	case KindUpdateAttributeDynamic:
		return "UpdateAttributeDynamic"
	default:
		return "Unknown"
	}
}

// Patch is a single mutation directive. Only the fields relevant to
// Kind are populated; all others remain zero.
type Patch struct {
	Kind Kind
	Path string

	Node    *vnode.VNode // Create, Replace
	Content string       // UpdateText
	Props   map[string]string // UpdateProps
	Order   []string     // ReorderChildren: new key order

	PropName string // UpdatePropsTemplate, UpdateAttributeDynamic
	AttrName string // UpdateAttributeStatic, UpdateAttributeDynamic
	Value    string // UpdateAttributeStatic

	TemplatePatch    *TemplatePatch    // UpdateTextTemplate, UpdatePropsTemplate, UpdateAttributeDynamic
	LoopTemplate     *LoopTemplate     // UpdateListTemplate
	ReorderTemplate  *ReorderTemplate  // ReorderTemplate
	StructuralTemplate *StructuralTemplate // ReplaceConditional
}

// Create builds a Create patch.
func Create(path string, node *vnode.VNode) Patch { return Patch{Kind: KindCreate, Path: path, Node: node} }

// Remove builds a Remove patch.
func Remove(path string) Patch { return Patch{Kind: KindRemove, Path: path} }

// Replace builds a Replace patch.
func Replace(path string, node *vnode.VNode) Patch {
	return Patch{Kind: KindReplace, Path: path, Node: node}
}

// UpdateText builds an UpdateText patch.
func UpdateText(path, content string) Patch {
	return Patch{Kind: KindUpdateText, Path: path, Content: content}
}

// UpdateProps builds an UpdateProps patch carrying the full new map.
func UpdateProps(path string, props map[string]string) Patch {
	return Patch{Kind: KindUpdateProps, Path: path, Props: props}
}

// ReorderChildren builds a ReorderChildren patch.
func ReorderChildren(path string, order []string) Patch {
	return Patch{Kind: KindReorderChildren, Path: path, Order: order}
}

// TemplatePatch is a parameterised text/attribute patch: a string
// template with numbered slots bound to state paths, materialised at
// apply time using current state.
type TemplatePatch struct {
	Template                string
	Bindings                []string
	BindingsWithTransforms  map[int]string // slot index -> transform expression, e.g. "toFixed(2)"
	Slots                   []int          // character offsets of each {n} slot in Template
	ConditionalTemplates    map[string]string
	ConditionalBindingIndex int
}

// LoopTemplate describes a per-item repetition bound to an array-typed
// state key.
type LoopTemplate struct {
	ArrayBinding string
	ItemTemplate *ItemTemplate
	IndexVar     string
	Separator    string
}

// ItemTemplate is either a Text template or an Element template with
// optional per-prop templates, nested child templates, and a
// key-binding expression for keyed list reconciliation.
type ItemTemplate struct {
	IsText        bool
	TextTemplate  string
	Tag           string
	PropTemplates map[string]string
	Children      []*ItemTemplate
	KeyBinding    string
}

// OrderingRuleKind discriminates the ReorderTemplate's ordering rule.
type OrderingRuleKind int

const (
	OrderSortByProperty OrderingRuleKind = iota
	OrderReverse
	OrderFilter
	OrderCustom
)

// OrderingRule describes how the new child order was derived from the
// old order, so it can be replayed against a different underlying
// array on prediction.
type OrderingRule struct {
	Kind      OrderingRuleKind
	Property  string // SortByProperty, Filter
	Ascending bool   // SortByProperty
	Value     string // Filter
	KeyOrder  []string // Custom
}

// ReorderTemplate binds a ReorderChildren patch to an array state key
// plus the rule that reproduces the observed order.
type ReorderTemplate struct {
	ArrayBinding string
	Rule         OrderingRule
}

// StructuralTemplate maps a condition binding's stringified value to
// a full VNode subtree, with an optional default branch for unseen
// values.
type StructuralTemplate struct {
	ConditionBinding string
	Branches         map[string]*vnode.VNode
	Default          *vnode.VNode
}
