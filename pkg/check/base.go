package check

import "github.com/ledgewell/mdcheck/pkg/config"

// BaseRule provides common metadata plumbing for rule implementations.
// Embed it and override DefaultEnabled or DefaultSeverity as needed.
type BaseRule struct {
	id   string
	desc string
	tags []string
}

// NewBaseRule creates the embeddable metadata base for a rule.
func NewBaseRule(id, desc string, tags []string) BaseRule {
	return BaseRule{id: id, desc: desc, tags: tags}
}

// ID returns the rule identifier.
func (b BaseRule) ID() string { return b.id }

// Description returns the rule description.
func (b BaseRule) Description() string { return b.desc }

// Tags returns the rule's categorization tags.
func (b BaseRule) Tags() []string { return b.tags }

// DefaultEnabled reports whether the rule runs by default. Rules that
// are opt-in override this.
func (b BaseRule) DefaultEnabled() bool { return true }

// DefaultSeverity returns the severity used absent configuration.
func (b BaseRule) DefaultSeverity() config.Severity { return config.SeverityWarning }
