package rules

import (
	"fmt"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// MultipleSpacesRule flags runs of two or more spaces inside prose.
type MultipleSpacesRule struct {
	check.BaseRule
}

// NewMultipleSpacesRule creates a new multiple spaces rule.
func NewMultipleSpacesRule() *MultipleSpacesRule {
	return &MultipleSpacesRule{
		BaseRule: check.NewBaseRule(
			"no-multiple-spaces",
			"Prose should not contain runs of multiple spaces",
			[]string{"whitespace"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *MultipleSpacesRule) OptionDefaults() map[string]any {
	return map[string]any{"ignore_tables": true}
}

// Check scans prose lines for interior runs of two or more spaces.
func (r *MultipleSpacesRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	ignoreTables := rc.OptionBool("ignore_tables", true)

	skip := lineSet(rc, document.KindFrontMatter)
	if ignoreTables {
		for line := range lineSet(rc, document.KindTable) {
			skip[line] = true
		}
	}

	var violations []check.Violation

	for line := 1; line <= rc.Doc.LineCount(); line++ {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}
		if skip[line] {
			continue
		}

		span := rc.Doc.LineSpan(line)
		text := rc.Doc.LineText(line)

		// Leading indentation and the trailing run are not interior:
		// indentation is structure, trailing spaces (hard breaks
		// included) belong to no-trailing-spaces.
		i := 0
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		end := len(text)
		for end > i && (text[end-1] == ' ' || text[end-1] == '\t') {
			end--
		}

		for i < end {
			if text[i] != ' ' || i+1 >= end || text[i+1] != ' ' {
				i++
				continue
			}
			runStart := i
			for i < end && text[i] == ' ' {
				i++
			}
			if rc.InCode(span.Start + runStart) {
				continue
			}
			v := check.NewViolation(r.ID(), rc.Doc,
				document.Span{Start: span.Start + runStart, End: span.Start + i},
				"Multiple consecutive spaces")
			v.Hint = "Use a single space"
			violations = append(violations, v)
		}
	}

	return violations, nil
}

// TrailingSpacesRule checks for trailing whitespace on lines.
type TrailingSpacesRule struct {
	check.BaseRule
}

// NewTrailingSpacesRule creates a new trailing spaces rule.
func NewTrailingSpacesRule() *TrailingSpacesRule {
	return &TrailingSpacesRule{
		BaseRule: check.NewBaseRule(
			"no-trailing-spaces",
			"Lines should not have trailing whitespace",
			[]string{"whitespace"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *TrailingSpacesRule) OptionDefaults() map[string]any {
	return map[string]any{"allow_breaks": true}
}

// Check flags trailing whitespace, permitting the exactly-two-space
// hard break when allow_breaks is set.
func (r *TrailingSpacesRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	allowBreaks := rc.OptionBool("allow_breaks", true)

	var violations []check.Violation

	for line := 1; line <= rc.Doc.LineCount(); line++ {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		span := rc.Doc.LineSpan(line)
		text := rc.Doc.LineText(line)

		start := len(text)
		for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
		}
		if start == len(text) {
			continue
		}

		// A hard break is exactly two spaces after content; a line of
		// nothing but whitespace is never a break.
		run := text[start:]
		if allowBreaks && start > 0 && len(run) == 2 && run[0] == ' ' && run[1] == ' ' {
			continue
		}

		v := check.NewViolation(r.ID(), rc.Doc,
			document.Span{Start: span.Start + start, End: span.End},
			"Trailing whitespace")
		v.Hint = "Remove trailing whitespace"
		violations = append(violations, v)
	}

	return violations, nil
}

// HardTabsRule checks for hard tab characters.
type HardTabsRule struct {
	check.BaseRule
}

// NewHardTabsRule creates a new hard tabs rule.
func NewHardTabsRule() *HardTabsRule {
	return &HardTabsRule{
		BaseRule: check.NewBaseRule(
			"no-hard-tabs",
			"Hard tabs should not be used",
			[]string{"whitespace"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *HardTabsRule) OptionDefaults() map[string]any {
	return map[string]any{"ignore_code": false}
}

// Check flags each run of tab characters, optionally skipping code.
func (r *HardTabsRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	ignoreCode := rc.OptionBool("ignore_code", false)

	var violations []check.Violation

	for line := 1; line <= rc.Doc.LineCount(); line++ {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		span := rc.Doc.LineSpan(line)
		text := rc.Doc.LineText(line)

		for i := 0; i < len(text); {
			if text[i] != '\t' {
				i++
				continue
			}
			runStart := i
			for i < len(text) && text[i] == '\t' {
				i++
			}
			if ignoreCode && rc.InCode(span.Start+runStart) {
				continue
			}
			v := check.NewViolation(r.ID(), rc.Doc,
				document.Span{Start: span.Start + runStart, End: span.Start + i},
				"Hard tab")
			v.Hint = "Use spaces instead of tabs"
			violations = append(violations, v)
		}
	}

	return violations, nil
}

// MultipleBlankLinesRule checks for consecutive blank lines.
type MultipleBlankLinesRule struct {
	check.BaseRule
}

// NewMultipleBlankLinesRule creates a new multiple blank lines rule.
func NewMultipleBlankLinesRule() *MultipleBlankLinesRule {
	return &MultipleBlankLinesRule{
		BaseRule: check.NewBaseRule(
			"no-multiple-blank-lines",
			"Multiple consecutive blank lines should be collapsed",
			[]string{"whitespace", "blank_lines"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *MultipleBlankLinesRule) OptionDefaults() map[string]any {
	return map[string]any{"max": 1}
}

// Check flags streaks of blank lines longer than max. Blank lines
// inside code blocks are content, not layout, and never count.
func (r *MultipleBlankLinesRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	maxBlank := rc.OptionInt("max", 1)
	if maxBlank < 1 {
		maxBlank = 1
	}

	codeLines := lineSet(rc, document.KindCodeBlock)

	var violations []check.Violation
	streakStart, streak := 0, 0

	flush := func() {
		if streak > maxBlank {
			violations = append(violations, r.violation(rc.Doc, streakStart, streak, maxBlank))
		}
		streak = 0
	}

	for line := 1; line <= rc.Doc.LineCount(); line++ {
		if rc.Cancelled() {
			return nil, rc.Ctx.Err()
		}

		if isBlankLine(rc.Doc, line) && !codeLines[line] {
			if streak == 0 {
				streakStart = line
			}
			streak++
			continue
		}
		flush()
	}
	flush()

	return violations, nil
}

func (r *MultipleBlankLinesRule) violation(doc *document.Document, streakStart, streak, maxBlank int) check.Violation {
	firstExcess := streakStart + maxBlank
	lastExcess := streakStart + streak - 1

	v := check.NewViolation(r.ID(), doc, document.Span{
		Start: doc.LineSpan(firstExcess).Start,
		End:   doc.LineSpan(lastExcess).Start,
	}, fmt.Sprintf("Multiple consecutive blank lines (found %d, max %d)", streak, maxBlank))
	v.Hint = fmt.Sprintf("Remove %d blank line(s)", streak-maxBlank)
	return v
}

// FinalNewlineRule ensures files end with a newline.
type FinalNewlineRule struct {
	check.BaseRule
}

// NewFinalNewlineRule creates a new final newline rule.
func NewFinalNewlineRule() *FinalNewlineRule {
	return &FinalNewlineRule{
		BaseRule: check.NewBaseRule(
			"final-newline",
			"Files should end with a newline character",
			[]string{"blank_lines"},
		),
	}
}

// Check flags files whose last byte is not a newline.
func (r *FinalNewlineRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	content := rc.Doc.Content
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return nil, nil
	}

	v := check.NewViolation(r.ID(), rc.Doc,
		document.Span{Start: len(content), End: len(content)},
		"File should end with a newline")
	v.Hint = "Add a newline at end of file"
	return []check.Violation{v}, nil
}
