package rules

import (
	"fmt"

	"github.com/ledgewell/mdcheck/pkg/check"
)

// UndefinedReferencesRule checks that reference-style links have a
// matching definition.
type UndefinedReferencesRule struct {
	check.BaseRule
}

// NewUndefinedReferencesRule creates a new undefined references rule.
func NewUndefinedReferencesRule() *UndefinedReferencesRule {
	return &UndefinedReferencesRule{
		BaseRule: check.NewBaseRule(
			"no-undefined-references",
			"Reference links should have a matching definition",
			[]string{"links", "references"},
		),
	}
}

// Check flags [text][label] and [label][] usages whose label has no
// definition.
func (r *UndefinedReferencesRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	var violations []check.Violation
	for _, usage := range rc.Refs().UndefinedReferences() {
		v := check.NewViolation(r.ID(), rc.Doc, usage.Span,
			fmt.Sprintf("Reference %q is not defined", usage.Label))
		v.Hint = fmt.Sprintf("Add a definition: [%s]: <url>", usage.Label)
		violations = append(violations, v)
	}
	return violations, nil
}

// UnusedDefinitionsRule checks for reference definitions nothing
// links to.
type UnusedDefinitionsRule struct {
	check.BaseRule
}

// NewUnusedDefinitionsRule creates a new unused definitions rule.
func NewUnusedDefinitionsRule() *UnusedDefinitionsRule {
	return &UnusedDefinitionsRule{
		BaseRule: check.NewBaseRule(
			"no-unused-definitions",
			"Reference definitions should be used",
			[]string{"links", "references"},
		),
	}
}

// Check flags definitions that no reference usage points at.
func (r *UnusedDefinitionsRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	var violations []check.Violation
	for _, def := range rc.Refs().UnusedDefinitions() {
		v := check.NewLineViolation(r.ID(), rc.Doc, def.Line,
			fmt.Sprintf("Reference definition %q is never used", def.Label))
		v.Hint = "Remove the definition or add a reference to it"
		violations = append(violations, v)
	}
	return violations, nil
}
