package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// MaxLineLengthRule checks that lines do not exceed a maximum length.
type MaxLineLengthRule struct {
	check.BaseRule
}

// NewMaxLineLengthRule creates a new max line length rule.
func NewMaxLineLengthRule() *MaxLineLengthRule {
	return &MaxLineLengthRule{
		BaseRule: check.NewBaseRule(
			"max-line-length",
			"Line length should not exceed the configured maximum",
			[]string{"line_length"},
		),
	}
}

// defaultMaxLineLength is the default maximum line length in characters.
const defaultMaxLineLength = 100

// OptionDefaults returns the rule's options and their defaults.
func (r *MaxLineLengthRule) OptionDefaults() map[string]any {
	return map[string]any{
		"max":             defaultMaxLineLength,
		"ignore_code":     true,
		"ignore_urls":     true,
		"ignore_headings": false,
	}
}

// Check flags lines longer than max. Length counts characters, not
// bytes; reported columns remain byte columns like everywhere else.
func (r *MaxLineLengthRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	maxLength := rc.OptionInt("max", defaultMaxLineLength)
	ignoreCode := rc.OptionBool("ignore_code", true)
	ignoreURLs := rc.OptionBool("ignore_urls", true)
	ignoreHeadings := rc.OptionBool("ignore_headings", false)

	skip := make(map[int]bool)
	if ignoreCode {
		skip = lineSet(rc, document.KindCodeBlock)
	}
	if ignoreHeadings {
		for line := range lineSet(rc, document.KindHeading) {
			skip[line] = true
		}
	}

	var violations []check.Violation

	for line := 1; line <= rc.Doc.LineCount(); line++ {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		text := rc.Doc.LineText(line)
		if len(text) <= maxLength || skip[line] {
			continue
		}
		length := utf8.RuneCount(text)
		if length <= maxLength {
			continue
		}
		if ignoreURLs && lineContainsURL(text) {
			continue
		}

		// Byte offset of the first character past the limit.
		cut, count := 0, 0
		for count < maxLength && cut < len(text) {
			_, size := utf8.DecodeRune(text[cut:])
			cut += size
			count++
		}

		span := rc.Doc.LineSpan(line)
		v := check.NewViolation(r.ID(), rc.Doc,
			document.Span{Start: span.Start + cut, End: span.End},
			fmt.Sprintf("Line length %d exceeds maximum %d", length, maxLength))
		v.Hint = fmt.Sprintf("Shorten the line to at most %d characters", maxLength)
		violations = append(violations, v)
	}

	return violations, nil
}
