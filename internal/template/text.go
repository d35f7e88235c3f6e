package template

import (
	"fmt"
	"strings"

	"github.com/vtreekit/vtree/internal/patch"
)

// ExtractTextTemplate builds a TemplatePatch from an observed text
// replacement, binding every state-value occurrence found in the new
// content to its state path via FindStateValuesInContent. Returns
// ok=false if no state-bound occurrence was found (the caller should
// fall back to a plain UpdateText patch).
func ExtractTextTemplate(state map[string]any, newContent string) (tp *patch.TemplatePatch, ok bool) {
	matches := FindStateValuesInContent(state, newContent)
	if len(matches) == 0 {
		return nil, false
	}

	var b strings.Builder
	bindings := make([]string, 0, len(matches))
	slots := make([]int, 0, len(matches))
	cursor := 0
	for i, m := range matches {
		b.WriteString(newContent[cursor:m.ContentPosition])
		slots = append(slots, b.Len())
		b.WriteString(fmt.Sprintf("{%d}", i))
		bindings = append(bindings, m.Path)
		cursor = m.ContentPosition + len(m.ValueStr)
	}
	b.WriteString(newContent[cursor:])

	return &patch.TemplatePatch{
		Template: b.String(),
		Bindings: bindings,
		Slots:    slots,
	}, true
}
