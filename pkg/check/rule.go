// Package check provides the rule engine for mdcheck: the Rule
// interface and registry, rule set resolution against configuration,
// and the Checker that orchestrates rule execution over parsed
// documents.
package check

import (
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// Violation represents a single problem a rule found in a document.
// Violations are produced by rules and never mutated afterwards; the
// checker stamps the resolved severity and file path before sorting.
type Violation struct {
	// RuleID is the identifier of the rule that produced this violation.
	RuleID string

	// Severity is the resolved severity (stamped by the checker).
	Severity config.Severity

	// Path is the file the violation belongs to (stamped by the checker).
	Path string

	// StartLine is the 1-based line where the problem starts.
	StartLine int

	// StartColumn is the 1-based byte column where the problem starts.
	StartColumn int

	// EndLine is the 1-based line where the problem ends.
	EndLine int

	// EndColumn is the 1-based byte column just past the problem.
	EndColumn int

	// Message describes the problem.
	Message string

	// Hint optionally suggests how to address the problem.
	Hint string
}

// NewViolation builds a violation whose position covers span.
func NewViolation(ruleID string, doc *document.Document, span document.Span, message string) Violation {
	start, end := doc.SpanPositions(span)
	return Violation{
		RuleID:      ruleID,
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
		Message:     message,
	}
}

// NewLineViolation builds a violation covering one whole line.
func NewLineViolation(ruleID string, doc *document.Document, line int, message string) Violation {
	return NewViolation(ruleID, doc, doc.LineSpan(line), message)
}

// OptionDocumenter is implemented by rules that accept options. The
// returned map pairs each option name with its default value; catalog
// listings and config templates use it, the checker never does.
type OptionDocumenter interface {
	OptionDefaults() map[string]any
}

// Rule defines the interface all checking rules implement.
type Rule interface {
	// ID returns the stable, unique identifier for this rule
	// (e.g. "no-multiple-spaces").
	ID() string

	// Description returns a short explanation of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule runs without explicit
	// configuration.
	DefaultEnabled() bool

	// DefaultSeverity returns the severity used when configuration does
	// not override it.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g. ["heading"]).
	Tags() []string

	// Check executes the rule against a document.
	//
	// Rules must:
	//   - be pure: no I/O, no global state, no document mutation,
	//   - be safe for concurrent use across documents,
	//   - respect rc.Ctx cancellation on long scans,
	//   - return an error only for internal failures, never for
	//     violations.
	Check(rc *RuleContext) ([]Violation, error)
}
