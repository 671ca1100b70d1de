package check

import (
	"slices"

	"github.com/ledgewell/mdcheck/pkg/config"
)

// ActiveRule pairs an enabled rule with its resolved severity and
// options for one checker run.
type ActiveRule struct {
	Rule Rule

	// Severity is the resolved severity for this run.
	Severity config.Severity

	// Options holds the rule's configured options, nil when the
	// configuration carries none.
	Options map[string]any
}

// RuleSet is the resolved, ordered collection of rules a checker run
// executes. Build one with NewRuleSet; a RuleSet is immutable and safe
// to share across goroutines.
type RuleSet struct {
	active []ActiveRule
}

// NewRuleSet resolves configuration against a registry into the list
// of rules to run. Resolution applies, from least to most specific:
// the rule's defaults, the enable/disable lists, the global severity
// default, and finally the per-rule configuration block.
//
// Referencing a rule ID the registry does not know is a configuration
// error, as is an unparseable severity.
func NewRuleSet(reg *Registry, cfg *config.Config) (*RuleSet, error) {
	if err := validateRuleIDs(reg, cfg); err != nil {
		return nil, err
	}

	baseline := config.Severity("")
	if cfg.SeverityDefault != "" {
		sev, err := config.ParseSeverity(cfg.SeverityDefault)
		if err != nil {
			return nil, config.NewError("severity_default: %v", err)
		}
		baseline = sev
	}

	var active []ActiveRule
	for _, rule := range reg.Rules() {
		id := rule.ID()

		enabled := rule.DefaultEnabled()
		if slices.Contains(cfg.Enable, id) {
			enabled = true
		}
		if slices.Contains(cfg.Disable, id) {
			enabled = false
		}

		severity := rule.DefaultSeverity()
		if baseline != "" {
			severity = baseline
		}

		var options map[string]any
		if rc, ok := cfg.Rules[id]; ok {
			if rc.Enabled != nil {
				enabled = *rc.Enabled
			}
			if rc.Severity != nil {
				sev, err := config.ParseSeverity(*rc.Severity)
				if err != nil {
					return nil, config.NewError("rule %q: %v", id, err)
				}
				severity = sev
			}
			options = rc.Options
		}

		if !enabled {
			continue
		}
		active = append(active, ActiveRule{Rule: rule, Severity: severity, Options: options})
	}

	return &RuleSet{active: active}, nil
}

// validateRuleIDs rejects configuration that references unknown rules.
// Keys are checked in sorted order so the reported ID is deterministic.
func validateRuleIDs(reg *Registry, cfg *config.Config) error {
	for _, id := range cfg.Enable {
		if _, ok := reg.Lookup(id); !ok {
			return config.NewError("enable: unknown rule %q", id)
		}
	}
	for _, id := range cfg.Disable {
		if _, ok := reg.Lookup(id); !ok {
			return config.NewError("disable: unknown rule %q", id)
		}
	}

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, ok := reg.Lookup(id); !ok {
			return config.NewError("rules: unknown rule %q", id)
		}
	}
	return nil
}

// Active returns the enabled rules in ID order. Callers must not
// mutate the returned slice.
func (s *RuleSet) Active() []ActiveRule {
	return s.active
}

// Len returns the number of enabled rules.
func (s *RuleSet) Len() int {
	return len(s.active)
}
