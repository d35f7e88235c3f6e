package template

import "github.com/vtreekit/vtree/internal/patch"

// BuildLoopTemplate constructs the LoopTemplate data shape for a
// per-item repetition bound to arrayBinding. Per spec §4.5, the loop
// extractor is specified only to the level of its data shape — the
// item template itself is supplied by the caller (typically derived
// from reconciling the first old/new item pair), not inferred here.
func BuildLoopTemplate(arrayBinding string, item *patch.ItemTemplate, indexVar, separator string) *patch.LoopTemplate {
	return &patch.LoopTemplate{
		ArrayBinding: arrayBinding,
		ItemTemplate: item,
		IndexVar:     indexVar,
		Separator:    separator,
	}
}
