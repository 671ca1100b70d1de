package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every known rule with its defaults and
	// documentation. If false, a minimal commented template is
	// generated.
	Full bool

	// Format is the output syntax: "yaml" or "toml".
	Format string

	// Rules carries the rule metadata the full template lists.
	Rules []RuleInfo
}

// RuleInfo is the rule metadata a template or catalog listing needs.
type RuleInfo struct {
	ID          string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string

	// Options maps option names to their default values, empty for
	// rules without options.
	Options map[string]any
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml":
		if opts.Full {
			return fullYAMLTemplate(opts.Rules), nil
		}
		return minimalYAMLTemplate(), nil
	case "toml":
		if opts.Full {
			return fullTOMLTemplate(opts.Rules), nil
		}
		return minimalTOMLTemplate(), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q (want yaml or toml)", opts.Format)
	}
}

func minimalYAMLTemplate() []byte {
	return []byte(`# mdcheck configuration
# See: https://github.com/ledgewell/mdcheck

# Markdown flavor: commonmark or gfm
flavor: gfm

# Output format: text, json, github, or summary
# format: text

# Number of parallel workers (0 = one per CPU)
# jobs: 0

# Per-document rule timeout ("0" disables)
# timeout: 10s

# Glob patterns to exclude
# exclude:
#   - "vendor/**"
#   - "node_modules/**"

# Rule-specific configuration
# rules:
#   max-line-length:
#     severity: error
#     options:
#       max: 120
#   starts-with-heading:
#     enabled: true
`)
}

func minimalTOMLTemplate() []byte {
	return []byte(`# mdcheck configuration
# See: https://github.com/ledgewell/mdcheck

# Markdown flavor: commonmark or gfm
flavor = "gfm"

# Output format: text, json, github, or summary
# format = "text"

# Number of parallel workers (0 = one per CPU)
# jobs = 0

# Per-document rule timeout ("0" disables)
# timeout = "10s"

# Glob patterns to exclude
# exclude = ["vendor/**", "node_modules/**"]

# Rule-specific configuration
# [rules.max-line-length]
# severity = "error"
# [rules.max-line-length.options]
# max = 120
`)
}

func fullYAMLTemplate(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# mdcheck configuration - Full Template
# See: https://github.com/ledgewell/mdcheck
#
# This template lists every built-in rule with its default settings.
# Uncomment and modify as needed.

# Markdown flavor: commonmark or gfm
flavor: gfm

# Output format: text, json, github, or summary
format: text

# Number of parallel workers (0 = one per CPU)
jobs: 0

# Per-document rule timeout ("0" disables)
timeout: 10s

# Glob patterns to exclude
exclude:
  - "vendor/**"
  - "node_modules/**"

# Rule-specific configuration
rules:
`)

	for _, rule := range rules {
		buf.WriteString(fmt.Sprintf("\n  # %s\n", wrapComment(rule.Description, commentWrapWidth, "  # ")))
		if len(rule.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("  # Tags: %s\n", strings.Join(rule.Tags, ", ")))
		}
		buf.WriteString(fmt.Sprintf("  %s:\n", rule.ID))
		buf.WriteString(fmt.Sprintf("    enabled: %t\n", rule.Enabled))
		buf.WriteString(fmt.Sprintf("    severity: %s\n", rule.Severity))
		if len(rule.Options) > 0 {
			buf.WriteString("    options:\n")
			for _, name := range sortedOptionNames(rule.Options) {
				buf.WriteString(fmt.Sprintf("      %s: %s\n", name, formatOptionValue(rule.Options[name])))
			}
		}
	}

	return buf.Bytes()
}

func fullTOMLTemplate(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# mdcheck configuration - Full Template
# See: https://github.com/ledgewell/mdcheck
#
# This template lists every built-in rule with its default settings.
# Uncomment and modify as needed.

# Markdown flavor: commonmark or gfm
flavor = "gfm"

# Output format: text, json, github, or summary
format = "text"

# Number of parallel workers (0 = one per CPU)
jobs = 0

# Per-document rule timeout ("0" disables)
timeout = "10s"

# Glob patterns to exclude
exclude = ["vendor/**", "node_modules/**"]
`)

	for _, rule := range rules {
		buf.WriteString(fmt.Sprintf("\n# %s\n", wrapComment(rule.Description, commentWrapWidth, "# ")))
		if len(rule.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("# Tags: %s\n", strings.Join(rule.Tags, ", ")))
		}
		buf.WriteString(fmt.Sprintf("[rules.%s]\n", rule.ID))
		buf.WriteString(fmt.Sprintf("enabled = %t\n", rule.Enabled))
		buf.WriteString(fmt.Sprintf("severity = %q\n", rule.Severity))
		if len(rule.Options) > 0 {
			buf.WriteString(fmt.Sprintf("[rules.%s.options]\n", rule.ID))
			for _, name := range sortedOptionNames(rule.Options) {
				buf.WriteString(fmt.Sprintf("%s = %s\n", name, formatOptionValue(rule.Options[name])))
			}
		}
	}

	return buf.Bytes()
}

// sortedOptionNames returns the option names in stable order.
func sortedOptionNames(options map[string]any) []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// formatOptionValue renders an option default as a literal both YAML
// and TOML accept.
func formatOptionValue(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case []string:
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// wrapComment wraps text to fit within maxWidth characters per line,
// prefixing continuation lines with cont.
func wrapComment(text string, maxWidth int, cont string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+cont)
}
