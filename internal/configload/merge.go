package configload

import "github.com/ledgewell/mdcheck/pkg/config"

// merge combines two configurations, with override taking precedence.
//   - Scalars: override wins when non-zero
//   - Slices: override replaces base entirely when non-nil
//   - Rules map: deep merge, override's fields win per rule
//   - CLI-only booleans: override wins when true (a layer cannot unset
//     a flag a lower layer turned on)
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	if override.MaxFileSize != 0 {
		result.MaxFileSize = override.MaxFileSize
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Strict {
		result.Strict = true
	}
	if override.NoContext {
		result.NoContext = true
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Exclude != nil {
		result.Exclude = override.Exclude
	}
	if override.Enable != nil {
		result.Enable = override.Enable
	}
	if override.Disable != nil {
		result.Disable = override.Disable
	}

	result.Rules = mergeRules(base.Rules, override.Rules)

	return &result
}

// mergeRules deep-merges rule configurations keyed by rule id.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	for id, rc := range base {
		result[id] = rc
	}
	for id, rc := range override {
		if existing, ok := result[id]; ok {
			result[id] = mergeRuleConfig(existing, rc)
		} else {
			result[id] = rc
		}
	}

	return result
}

// mergeRuleConfig merges one rule's configuration. Pointer fields
// distinguish "not set" from an explicit value, so only fields the
// override mentions change.
func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	// Clone rather than write through: base and result share the same
	// Options map after the struct copy.
	if override.Options != nil {
		merged := make(map[string]any, len(base.Options)+len(override.Options))
		for key, val := range base.Options {
			merged[key] = val
		}
		for key, val := range override.Options {
			merged[key] = val
		}
		result.Options = merged
	}

	return result
}
