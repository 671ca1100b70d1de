package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// HeadingIncrementRule checks that heading levels increment by one.
type HeadingIncrementRule struct {
	check.BaseRule
}

// NewHeadingIncrementRule creates a new heading increment rule.
func NewHeadingIncrementRule() *HeadingIncrementRule {
	return &HeadingIncrementRule{
		BaseRule: check.NewBaseRule(
			"heading-increment",
			"Heading levels should only increment by one level at a time",
			[]string{"headings"},
		),
	}
}

// Check flags headings that skip levels. The first heading may be any
// level.
func (r *HeadingIncrementRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	var violations []check.Violation
	var prevLevel int

	for _, heading := range rc.Nodes(document.KindHeading) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		level := heading.Level
		if level == 0 {
			continue
		}
		if prevLevel > 0 && level > prevLevel+1 {
			v := check.NewViolation(r.ID(), rc.Doc, heading.Span,
				fmt.Sprintf("Heading level jumped from H%d to H%d", prevLevel, level))
			v.Hint = fmt.Sprintf("Use H%d instead", prevLevel+1)
			violations = append(violations, v)
		}
		prevLevel = level
	}

	return violations, nil
}

// SingleH1Rule checks that there is at most one top-level heading.
type SingleH1Rule struct {
	check.BaseRule
}

// NewSingleH1Rule creates a new single top-level heading rule.
func NewSingleH1Rule() *SingleH1Rule {
	return &SingleH1Rule{
		BaseRule: check.NewBaseRule(
			"single-h1",
			"Documents should have a single top-level heading",
			[]string{"headings"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *SingleH1Rule) OptionDefaults() map[string]any {
	return map[string]any{"level": 1}
}

// Check flags every top-level heading after the first.
func (r *SingleH1Rule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	level := rc.OptionInt("level", 1)

	var tops []*document.Node
	for _, heading := range rc.Nodes(document.KindHeading) {
		if heading.Level == level {
			tops = append(tops, heading)
		}
	}

	var violations []check.Violation
	for i := 1; i < len(tops); i++ {
		v := check.NewViolation(r.ID(), rc.Doc, tops[i].Span,
			fmt.Sprintf("Multiple H%d headings found (this is H%d #%d)", level, level, i+1))
		v.Hint = fmt.Sprintf("Use H%d or lower for subsequent headings", level+1)
		violations = append(violations, v)
	}

	return violations, nil
}

// NoDuplicateHeadingRule checks for headings with identical content.
type NoDuplicateHeadingRule struct {
	check.BaseRule
}

// NewNoDuplicateHeadingRule creates a new duplicate heading rule.
func NewNoDuplicateHeadingRule() *NoDuplicateHeadingRule {
	return &NoDuplicateHeadingRule{
		BaseRule: check.NewBaseRule(
			"no-duplicate-heading",
			"Headings should not repeat the same content",
			[]string{"headings"},
		),
	}
}

// headingKey identifies a heading's content and, when siblings_only is
// set, the nearest enclosing heading it sits under.
type headingKey struct {
	parent int
	text   string
}

// OptionDefaults returns the rule's options and their defaults.
func (r *NoDuplicateHeadingRule) OptionDefaults() map[string]any {
	return map[string]any{"siblings_only": false}
}

// Check flags headings whose text repeats an earlier heading. With
// siblings_only, only headings under the same parent heading compete.
func (r *NoDuplicateHeadingRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	siblingsOnly := rc.OptionBool("siblings_only", false)

	headings := rc.Nodes(document.KindHeading)
	seen := make(map[headingKey]int)

	// stack holds indices of the current heading ancestry by level.
	var stack []int

	var violations []check.Violation
	for idx, heading := range headings {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		text := strings.TrimSpace(rc.Doc.NodeText(heading))
		if text == "" {
			continue
		}

		parent := -1
		if siblingsOnly {
			for len(stack) > 0 && headings[stack[len(stack)-1]].Level >= heading.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, idx)
		}

		key := headingKey{parent: parent, text: text}
		if firstLine, ok := seen[key]; ok {
			v := check.NewViolation(r.ID(), rc.Doc, heading.Span,
				fmt.Sprintf("Duplicate heading %q (first used on line %d)", text, firstLine))
			v.Hint = "Make the heading unique"
			violations = append(violations, v)
			continue
		}
		seen[key] = rc.Doc.PositionAt(heading.Span.Start).Line
	}

	return violations, nil
}

// NoTrailingPunctuationRule checks for punctuation at the end of
// headings.
type NoTrailingPunctuationRule struct {
	check.BaseRule
}

// NewNoTrailingPunctuationRule creates a new trailing punctuation rule.
func NewNoTrailingPunctuationRule() *NoTrailingPunctuationRule {
	return &NoTrailingPunctuationRule{
		BaseRule: check.NewBaseRule(
			"no-trailing-punctuation",
			"Headings should not end with punctuation",
			[]string{"headings"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *NoTrailingPunctuationRule) OptionDefaults() map[string]any {
	return map[string]any{"punctuation": ".,;:!"}
}

// Check flags headings whose text ends with a configured punctuation
// character. Question marks are allowed by default.
func (r *NoTrailingPunctuationRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	punctuation := rc.OptionString("punctuation", ".,;:!")

	var violations []check.Violation
	for _, heading := range rc.Nodes(document.KindHeading) {
		text := strings.TrimSpace(rc.Doc.NodeText(heading))
		if text == "" {
			continue
		}

		last, _ := utf8.DecodeLastRuneInString(text)
		if !strings.ContainsRune(punctuation, last) {
			continue
		}

		v := check.NewViolation(r.ID(), rc.Doc, heading.Span,
			"Trailing punctuation in heading")
		v.Hint = fmt.Sprintf("Remove the trailing %q", string(last))
		violations = append(violations, v)
	}

	return violations, nil
}

// StartsWithHeadingRule checks that document content opens with a
// top-level heading.
type StartsWithHeadingRule struct {
	check.BaseRule
}

// NewStartsWithHeadingRule creates a new starts-with-heading rule.
func NewStartsWithHeadingRule() *StartsWithHeadingRule {
	return &StartsWithHeadingRule{
		BaseRule: check.NewBaseRule(
			"starts-with-heading",
			"Documents should start with a top-level heading",
			[]string{"headings"},
		),
	}
}

// DefaultEnabled returns false; the rule is opt-in.
func (r *StartsWithHeadingRule) DefaultEnabled() bool {
	return false
}

// OptionDefaults returns the rule's options and their defaults.
func (r *StartsWithHeadingRule) OptionDefaults() map[string]any {
	return map[string]any{"level": 1}
}

// Check flags the first content node when it is not a heading of the
// configured level. Front matter and HTML comments may precede it.
func (r *StartsWithHeadingRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	level := rc.OptionInt("level", 1)

	for _, child := range rc.Doc.Root.Children {
		switch child.Kind {
		case document.KindFrontMatter:
			continue
		case document.KindHTMLBlock:
			if strings.HasPrefix(string(rc.Doc.Slice(child.Span)), "<!--") {
				continue
			}
		case document.KindHeading:
			if child.Level == level {
				return nil, nil
			}
		}

		line := rc.Doc.PositionAt(child.Span.Start).Line
		v := check.NewLineViolation(r.ID(), rc.Doc, line,
			fmt.Sprintf("Document should start with an H%d heading", level))
		v.Hint = fmt.Sprintf("Add an H%d heading at the beginning of the document", level)
		return []check.Violation{v}, nil
	}

	return nil, nil
}
