package rules

import (
	"fmt"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// BulletStyleRule checks that unordered list markers are consistent.
type BulletStyleRule struct {
	check.BaseRule
}

// NewBulletStyleRule creates a new bullet style rule.
func NewBulletStyleRule() *BulletStyleRule {
	return &BulletStyleRule{
		BaseRule: check.NewBaseRule(
			"bullet-style",
			"Unordered list markers should be consistent",
			[]string{"lists"},
		),
	}
}

// bulletForStyle maps a configured style name to its marker byte.
// The zero byte means "use the first marker seen".
func bulletForStyle(style string) (byte, error) {
	switch style {
	case "consistent":
		return 0, nil
	case "dash":
		return '-', nil
	case "asterisk":
		return '*', nil
	case "plus":
		return '+', nil
	default:
		return 0, fmt.Errorf("invalid bullet style %q (want consistent, dash, asterisk, or plus)", style)
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *BulletStyleRule) OptionDefaults() map[string]any {
	return map[string]any{"style": "consistent"}
}

// Check flags list items whose bullet differs from the expected
// marker: the configured one, or the document's first bullet when the
// style is consistent.
func (r *BulletStyleRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	want, err := bulletForStyle(rc.OptionString("style", "consistent"))
	if err != nil {
		return nil, err
	}

	var violations []check.Violation
	for _, list := range rc.Nodes(document.KindList) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}
		if list.Ordered {
			continue
		}

		for _, item := range list.Children {
			if item.Kind != document.KindListItem || item.Span.IsEmpty() {
				continue
			}
			marker := rc.Doc.Content[item.Span.Start]
			if marker != '-' && marker != '*' && marker != '+' {
				continue
			}
			if want == 0 {
				want = marker
				continue
			}
			if marker == want {
				continue
			}

			v := check.NewViolation(r.ID(), rc.Doc,
				document.Span{Start: item.Span.Start, End: item.Span.Start + 1},
				fmt.Sprintf("List item marker '%c' should be '%c'", marker, want))
			v.Hint = fmt.Sprintf("Use '%c' for unordered list items", want)
			violations = append(violations, v)
		}
	}

	return violations, nil
}

// ListNumberingRule checks ordered list item numbering.
type ListNumberingRule struct {
	check.BaseRule
}

// NewListNumberingRule creates a new list numbering rule.
func NewListNumberingRule() *ListNumberingRule {
	return &ListNumberingRule{
		BaseRule: check.NewBaseRule(
			"list-numbering",
			"Ordered list numbering should follow the configured style",
			[]string{"lists"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *ListNumberingRule) OptionDefaults() map[string]any {
	return map[string]any{"style": "consistent"}
}

// Check flags ordered list items whose number breaks the style:
// sequential (increment from the first item), all-one (every item
// numbered 1), or consistent (inferred per list from its first two
// items).
func (r *ListNumberingRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	style := rc.OptionString("style", "consistent")
	switch style {
	case "sequential", "all-one", "consistent":
	default:
		return nil, fmt.Errorf("invalid numbering style %q (want sequential, all-one, or consistent)", style)
	}

	var violations []check.Violation
	for _, list := range rc.Nodes(document.KindList) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}
		if !list.Ordered {
			continue
		}

		var ordinals []int
		var spans []document.Span
		for _, item := range list.Children {
			if item.Kind != document.KindListItem {
				continue
			}
			n, span := itemOrdinal(rc.Doc, item)
			if n < 0 {
				continue
			}
			ordinals = append(ordinals, n)
			spans = append(spans, span)
		}
		if len(ordinals) == 0 {
			continue
		}

		mode := style
		if mode == "consistent" {
			mode = "sequential"
			if len(ordinals) >= 2 && ordinals[0] == 1 && ordinals[1] == 1 {
				mode = "all-one"
			}
		}

		switch mode {
		case "all-one":
			for i, n := range ordinals {
				if n == 1 {
					continue
				}
				v := check.NewViolation(r.ID(), rc.Doc, spans[i],
					fmt.Sprintf("List item number %d should be 1", n))
				v.Hint = "Number every item 1 in this list style"
				violations = append(violations, v)
			}
		case "sequential":
			want := ordinals[0]
			for i, n := range ordinals {
				if n != want {
					v := check.NewViolation(r.ID(), rc.Doc, spans[i],
						fmt.Sprintf("List item number %d should be %d", n, want))
					v.Hint = "Number list items sequentially"
					violations = append(violations, v)
				}
				want++
			}
		}
	}

	return violations, nil
}
