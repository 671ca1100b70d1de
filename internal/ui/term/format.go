package term

import (
	"fmt"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// contextIndent aligns source context under the violation line.
const contextIndent = "        "

// FormatSeverity returns the styled severity word.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatFileHeader formats the per-file heading of grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		word := "issues"
		if issueCount == 1 {
			word = "issue"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, word))
	}
	return header
}

// FormatViolation formats one violation as an indented line, with
// optional source context and hint below it.
func (s *Styles) FormatViolation(v *check.Violation, sourceLine string, showContext bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%d:%d-%d:%d", v.StartLine, v.StartColumn, v.EndLine, v.EndColumn)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		s.Location.Render(location),
		s.FormatSeverity(v.Severity),
		s.RuleID.Render(v.RuleID),
		s.Message.Render(v.Message),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, v.StartColumn, caretWidth(v)))
	}

	if v.Hint != "" {
		builder.WriteString(contextIndent + s.Dim.Render("hint: ") + s.Hint.Render(v.Hint) + "\n")
	}

	return builder.String()
}

// FormatSourceContext renders a source line with a caret marker under
// the violating span.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		if width < 1 {
			width = 1
		}
		padding := contextIndent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render(strings.Repeat("^", width)) + "\n")
	}

	return builder.String()
}

// caretWidth is the number of columns the violation spans on its first
// line.
func caretWidth(v *check.Violation) int {
	if v.EndLine == v.StartLine && v.EndColumn > v.StartColumn {
		return v.EndColumn - v.StartColumn
	}
	return 1
}

// FormatRunSummary formats run statistics as a single line.
// Example: "12 issues (8 errors, 4 warnings) in 3 files".
func (s *Styles) FormatRunSummary(stats batch.Stats, filesWithIssues int) string {
	if stats.Violations == 0 && stats.Failed == 0 && stats.ParseErrors == 0 {
		word := "files"
		if stats.Checked == 1 {
			word = "file"
		}
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.Checked, word)) + "\n"
	}

	var parts []string

	if stats.Violations > 0 {
		issueWord := "issues"
		if stats.Violations == 1 {
			issueWord = "issue"
		}

		var severityParts []string
		if stats.Errors > 0 {
			severityParts = append(severityParts, s.Error.Render(plural(stats.Errors, "error")))
		}
		if stats.Warnings > 0 {
			severityParts = append(severityParts, s.Warning.Render(plural(stats.Warnings, "warning")))
		}
		if stats.Infos > 0 {
			severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", stats.Infos)))
		}

		count := fmt.Sprintf("%d %s", stats.Violations, issueWord)
		if len(severityParts) > 0 {
			count += fmt.Sprintf(" (%s)", strings.Join(severityParts, ", "))
		}

		fileWord := "files"
		if filesWithIssues == 1 {
			fileWord = "file"
		}
		parts = append(parts, fmt.Sprintf("%s in %d %s", count, filesWithIssues, fileWord))
	}

	if stats.Failed > 0 {
		fileWord := "files"
		if stats.Failed == 1 {
			fileWord = "file"
		}
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed", stats.Failed, fileWord)))
	}

	if stats.ParseErrors > 0 {
		parts = append(parts, s.Dim.Render(plural(stats.ParseErrors, "parse error")))
	}

	return strings.Join(parts, ", ") + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
