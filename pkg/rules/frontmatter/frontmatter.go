// Package frontmatter provides rules that validate YAML front matter
// blocks. The pack registers itself with the default registry on import,
// same as the main catalog in pkg/rules.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/document"
)

// SyntaxRule checks that front matter, when present, parses as YAML.
type SyntaxRule struct {
	check.BaseRule
}

// NewSyntaxRule creates a new front matter syntax rule.
func NewSyntaxRule() *SyntaxRule {
	return &SyntaxRule{
		BaseRule: check.NewBaseRule(
			"frontmatter-syntax",
			"Front matter must be valid YAML",
			[]string{"frontmatter"},
		),
	}
}

// DefaultSeverity returns error - malformed front matter usually breaks
// whatever pipeline consumes it.
func (r *SyntaxRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Check parses the front matter body and reports syntax errors. It also
// requires the top-level value to be a mapping, since scalar or sequence
// front matter is almost always an authoring mistake.
func (r *SyntaxRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	fm := frontMatterNode(rc)
	if fm == nil {
		return nil, nil
	}

	line := rc.Doc.PositionAt(fm.Span.Start).Line
	body := rc.Doc.Slice(fm.InnerSpan)

	var value any
	if err := yaml.Unmarshal(body, &value); err != nil {
		v := check.NewLineViolation(r.ID(), rc.Doc, line,
			fmt.Sprintf("Front matter is not valid YAML: %s", firstLine(err.Error())))
		v.Hint = "Fix the YAML syntax"
		return []check.Violation{v}, nil
	}

	if value == nil {
		return nil, nil
	}
	if _, ok := value.(map[string]any); !ok {
		v := check.NewLineViolation(r.ID(), rc.Doc, line,
			"Front matter must be a YAML mapping")
		v.Hint = "Use key: value pairs at the top level"
		return []check.Violation{v}, nil
	}

	return nil, nil
}

// FieldsRule checks that front matter declares a configured set of fields.
type FieldsRule struct {
	check.BaseRule
}

// NewFieldsRule creates a new front matter fields rule.
func NewFieldsRule() *FieldsRule {
	return &FieldsRule{
		BaseRule: check.NewBaseRule(
			"frontmatter-fields",
			"Front matter should declare the required fields",
			[]string{"frontmatter"},
		),
	}
}

// OptionDefaults returns the rule's options and their defaults.
func (r *FieldsRule) OptionDefaults() map[string]any {
	return map[string]any{"fields": []string{}, "required": false}
}

// Check verifies that every configured field is present. With the
// "required" option set, a document without front matter is itself a
// violation. Unparseable front matter is left to the syntax rule.
func (r *FieldsRule) Check(rc *check.RuleContext) ([]check.Violation, error) {
	fields := rc.OptionStringSlice("fields", nil)
	required := rc.OptionBool("required", false)

	fm := frontMatterNode(rc)
	if fm == nil {
		if !required {
			return nil, nil
		}
		v := check.NewLineViolation(r.ID(), rc.Doc, 1, "Missing front matter")
		v.Hint = "Add a YAML front matter block at the top of the file"
		return []check.Violation{v}, nil
	}
	if len(fields) == 0 {
		return nil, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(rc.Doc.Slice(fm.InnerSpan), &data); err != nil {
		return nil, nil
	}

	line := rc.Doc.PositionAt(fm.Span.Start).Line

	var violations []check.Violation
	for _, field := range fields {
		if _, ok := data[field]; ok {
			continue
		}
		v := check.NewLineViolation(r.ID(), rc.Doc, line,
			fmt.Sprintf("Front matter is missing required field %q", field))
		v.Hint = fmt.Sprintf("Add %q to the front matter", field)
		violations = append(violations, v)
	}

	return violations, nil
}

// RegisterAll registers the front matter rules with the given registry.
func RegisterAll(registry *check.Registry) {
	registry.MustRegister(NewSyntaxRule())
	registry.MustRegister(NewFieldsRule())
}

//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(check.DefaultRegistry)
}

func frontMatterNode(rc *check.RuleContext) *document.Node {
	nodes := rc.Nodes(document.KindFrontMatter)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
