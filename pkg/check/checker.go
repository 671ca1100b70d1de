package check

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ledgewell/mdcheck/pkg/document"
)

// Parser turns raw file content into a document tree. The Checker
// depends on this interface rather than a concrete parser so tests can
// substitute their own.
//
// Implementations must be safe for concurrent use and must return a
// non-nil document whenever the error is nil.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*document.Document, error)
}

// RuleError records a rule that failed with an internal error. The
// failure is reported alongside the violations instead of aborting the
// whole run.
type RuleError struct {
	// RuleID identifies the failing rule.
	RuleID string

	// Err is the error the rule returned (or the recovered panic).
	Err error
}

// Result is the outcome of checking a single document.
type Result struct {
	// Path is the file that was checked.
	Path string

	// Content is the checked source, kept so reporters can show the
	// offending lines.
	Content []byte

	// Violations holds all problems found, in document order.
	Violations []Violation

	// RuleErrors lists rules that failed internally, sorted by rule ID.
	RuleErrors []RuleError

	// ParseErrors carries the structural problems the parser recorded.
	ParseErrors []document.ParseError

	// TimedOut reports whether the per-document deadline expired before
	// all rules ran.
	TimedOut bool
}

// HasViolations reports whether any rule produced a violation.
func (r *Result) HasViolations() bool {
	return len(r.Violations) > 0
}

// Checker runs a resolved rule set against documents.
type Checker struct {
	// Parser parses raw content ahead of rule execution.
	Parser Parser

	// Rules is the resolved set of rules to execute.
	Rules *RuleSet

	// Timeout bounds the time spent on a single document. Zero means
	// no limit.
	Timeout time.Duration
}

// NewChecker creates a checker for the given parser and rule set.
func NewChecker(parser Parser, rules *RuleSet) *Checker {
	return &Checker{Parser: parser, Rules: rules}
}

// Check parses content and runs the rule set over the resulting
// document. Parse failures (I/O level, not structural) are returned as
// errors; structural problems flow into Result.ParseErrors.
func (c *Checker) Check(ctx context.Context, path string, content []byte) (*Result, error) {
	doc, err := c.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c.CheckDocument(ctx, doc), nil
}

// CheckDocument runs the rule set over an already parsed document.
// Rules run sequentially; a failing rule is recorded in RuleErrors and
// the remaining rules still run. When the per-document timeout expires
// the remaining rules are skipped and TimedOut is set.
func (c *Checker) CheckDocument(ctx context.Context, doc *document.Document) *Result {
	result := &Result{
		Path:        doc.Path,
		Content:     doc.Content,
		ParseErrors: doc.Errors,
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cache := newDocCache(doc)
	for _, ar := range c.Rules.Active() {
		if err := ctx.Err(); err != nil {
			result.TimedOut = errors.Is(err, context.DeadlineExceeded)
			break
		}

		rc := &RuleContext{
			Ctx:      ctx,
			Doc:      doc,
			Severity: ar.Severity,
			Options:  ar.Options,
			cache:    cache,
		}

		violations, err := runRule(ar.Rule, rc)
		if err != nil {
			result.RuleErrors = append(result.RuleErrors, RuleError{RuleID: ar.Rule.ID(), Err: err})
			continue
		}

		for i := range violations {
			violations[i].Severity = ar.Severity
			if violations[i].Path == "" {
				violations[i].Path = doc.Path
			}
		}
		result.Violations = append(result.Violations, violations...)
	}

	sortViolations(result.Violations)
	slices.SortFunc(result.RuleErrors, func(a, b RuleError) int {
		return cmp.Compare(a.RuleID, b.RuleID)
	})
	return result
}

// runRule executes one rule, converting a panic into an error so a
// buggy rule cannot take down the whole run.
func runRule(rule Rule, rc *RuleContext) (violations []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Check(rc)
}

// sortViolations orders violations by position, then rule ID, then
// message, giving byte-identical output across runs.
func sortViolations(violations []Violation) {
	slices.SortFunc(violations, func(a, b Violation) int {
		return cmp.Or(
			cmp.Compare(a.StartLine, b.StartLine),
			cmp.Compare(a.StartColumn, b.StartColumn),
			cmp.Compare(a.EndLine, b.EndLine),
			cmp.Compare(a.EndColumn, b.EndColumn),
			cmp.Compare(a.RuleID, b.RuleID),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
