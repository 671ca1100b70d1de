package rules

import (
	"fmt"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/codelang"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// FencedCodeLanguageRule checks that fenced code blocks declare a
// language.
type FencedCodeLanguageRule struct {
	check.BaseRule
}

// NewFencedCodeLanguageRule creates a new fenced code language rule.
func NewFencedCodeLanguageRule() *FencedCodeLanguageRule {
	return &FencedCodeLanguageRule{
		BaseRule: check.NewBaseRule(
			"fenced-code-language",
			"Fenced code blocks should declare a language",
			[]string{"code"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *FencedCodeLanguageRule) OptionDefaults() map[string]any {
	return map[string]any{"known_only": false}
}

// Check flags fenced blocks without an info string and, with
// known_only, info strings naming no recognized language. Indented
// code blocks carry no info string and are exempt.
func (r *FencedCodeLanguageRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	knownOnly := rc.OptionBool("known_only", false)

	var violations []check.Violation
	for _, block := range rc.Nodes(document.KindCodeBlock) {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}
		if !block.Fenced {
			continue
		}

		line := rc.Doc.PositionAt(block.Span.Start).Line
		token := codelang.Token(block.Info)

		if token == "" {
			v := check.NewLineViolation(r.ID(), rc.Doc, line,
				"Fenced code block has no language")
			v.Hint = "Add a language identifier after the opening fence"
			violations = append(violations, v)
			continue
		}
		if knownOnly && !codelang.Known(block.Info) {
			v := check.NewLineViolation(r.ID(), rc.Doc, line,
				fmt.Sprintf("Unknown code fence language %q", token))
			v.Hint = "Use a language identifier recognized by linguist"
			violations = append(violations, v)
		}
	}

	return violations, nil
}
