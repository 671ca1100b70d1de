package configload

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// Validate checks the merged configuration for fatal problems: bad
// enum values, an unparseable timeout, malformed glob patterns, and
// references to rule ids the registry does not know. The first problem
// found is returned as a *config.Error.
func Validate(cfg *config.Config, registry *check.Registry) error {
	if cfg == nil {
		return nil
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		return config.NewError("invalid flavor %q (want commonmark or gfm)", cfg.Flavor)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		return config.NewError("invalid format %q (want text, json, github, or summary)", cfg.Format)
	}

	if cfg.SeverityDefault != "" {
		if _, err := config.ParseSeverity(cfg.SeverityDefault); err != nil {
			return config.NewError("invalid severity_default: %v", err)
		}
	}

	if cfg.Jobs < 0 {
		return config.NewError("jobs must be >= 0 (0 means one per CPU), got %d", cfg.Jobs)
	}

	if cfg.MaxFileSize < 0 {
		return config.NewError("max_file_size must be >= 0, got %d", cfg.MaxFileSize)
	}

	if _, err := cfg.TimeoutDuration(); err != nil {
		return config.NewError("invalid timeout: %v", err)
	}

	if err := validatePatterns("exclude", cfg.Exclude); err != nil {
		return err
	}
	if err := validatePatterns("include", cfg.Include); err != nil {
		return err
	}

	return validateRuleRefs(cfg, registry)
}

// validatePatterns rejects malformed glob patterns up front so a typo
// fails the run instead of silently matching nothing.
func validatePatterns(field string, patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return config.NewError("invalid %s pattern %q", field, pattern)
		}
	}
	return nil
}

// validateRuleRefs checks every rule id the configuration mentions
// against the registry. Unknown ids are fatal: a silently ignored
// entry would give false confidence that a rule is configured.
func validateRuleRefs(cfg *config.Config, registry *check.Registry) error {
	if registry == nil {
		return nil
	}

	// Sort map keys so the first error reported is deterministic.
	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := registry.Lookup(id); !ok {
			return config.NewError("unknown rule %q in rules", id)
		}
		rc := cfg.Rules[id]
		if rc.Severity != nil {
			if _, err := config.ParseSeverity(*rc.Severity); err != nil {
				return config.NewError("rule %q: %v", id, err)
			}
		}
	}

	for _, id := range cfg.Enable {
		if _, ok := registry.Lookup(id); !ok {
			return config.NewError("unknown rule %q in enable", id)
		}
	}

	for _, id := range cfg.Disable {
		if _, ok := registry.Lookup(id); !ok {
			return config.NewError("unknown rule %q in disable", id)
		}
	}

	return nil
}
