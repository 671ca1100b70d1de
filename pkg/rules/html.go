package rules

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// InlineHTMLRule restricts the use of raw HTML in Markdown.
type InlineHTMLRule struct {
	check.BaseRule
}

// NewInlineHTMLRule creates a new inline HTML rule.
func NewInlineHTMLRule() *InlineHTMLRule {
	return &InlineHTMLRule{
		BaseRule: check.NewBaseRule(
			"no-inline-html",
			"Inline HTML should be avoided or restricted to allowed elements",
			[]string{"html"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *InlineHTMLRule) OptionDefaults() map[string]any {
	return map[string]any{"allowed": []string{}}
}

// Check flags HTML elements outside the allowed list. Comments and
// closing tags are not reported; the opening tag carries the finding.
func (r *InlineHTMLRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	allowed := make(map[string]bool)
	for _, el := range rc.OptionStringSlice("allowed", nil) {
		allowed[strings.ToLower(el)] = true
	}

	var violations []check.Violation
	for _, kind := range []document.NodeKind{document.KindHTMLBlock, document.KindRawHTML} {
		for _, node := range rc.Nodes(kind) {
			if rc.Cancelled() {
				return nil, rc.Ctx.Err()
			}

			src := rc.Doc.Slice(node.Span)
			name, closing := htmlTagName(src)
			if name == "" || closing || allowed[name] {
				continue
			}

			// Point at the tag, not the whole block.
			span := node.Span
			if gt := bytes.IndexByte(src, '>'); gt >= 0 {
				span.End = span.Start + gt + 1
			}

			v := check.NewViolation(r.ID(), rc.Doc, span,
				fmt.Sprintf("HTML element '%s' is not allowed", name))
			v.Hint = r.hint(allowed)
			violations = append(violations, v)
		}
	}

	return violations, nil
}

func (r *InlineHTMLRule) hint(allowed map[string]bool) string {
	if len(allowed) == 0 {
		return "Remove HTML or use Markdown syntax"
	}
	names := make([]string, 0, len(allowed))
	for name := range allowed {
		names = append(names, name)
	}
	slices.Sort(names)
	return "Allowed elements: " + strings.Join(names, ", ")
}
