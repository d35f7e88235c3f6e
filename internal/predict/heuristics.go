package predict

import (
	"strconv"
	"strings"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/vnode"
)

// numericTextReplaceConfidence is the fixed confidence spec §4.4
// assigns to the built-in numeric text-replace heuristic.
const numericTextReplaceConfidence = 0.85

// heuristicPredict supplies a zero-shot prediction when the learned
// store has nothing usable, per spec §4.4.
func (p *Predictor) heuristicPredict(change StateChange, currentTree *vnode.VNode) (Prediction, bool) {
	switch ClassifyPatternType(change.OldValue, change.NewValue) {
	case PatternNumericIncrement, PatternNumericDecrement:
		return p.numericTextReplace(change, currentTree)
	default:
		return Prediction{}, false
	}
}

func (p *Predictor) numericTextReplace(change StateChange, currentTree *vnode.VNode) (Prediction, bool) {
	oldStr := stringifyNumeric(change.OldValue)
	newStr := stringifyNumeric(change.NewValue)
	if oldStr == "" {
		return Prediction{}, false
	}

	var patches []patch.Patch
	var collect func(n *vnode.VNode)
	collect = func(n *vnode.VNode) {
		if n == nil {
			return
		}
		switch n.Kind {
		case vnode.KindText:
			if strings.Contains(n.Content, oldStr) {
				patches = append(patches, patch.UpdateText(n.Path, strings.Replace(n.Content, oldStr, newStr, -1)))
			}
		case vnode.KindElement:
			for _, c := range n.Children {
				collect(c)
			}
		}
	}
	collect(currentTree)

	if len(patches) == 0 {
		return Prediction{}, false
	}
	return Prediction{
		StateChange:     change,
		PredictedPatches: patches,
		Confidence:      numericTextReplaceConfidence,
	}, true
}

func stringifyNumeric(v any) string {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
