// Package config defines the configuration schema for mdcheck: the
// severity, flavor, and output-format enums, per-rule settings, and the
// root Config structure shared by the loader, the rule set, and the
// reporters. Types here are pure data; discovery and precedence merging
// live in internal/configload.
package config

import (
	"fmt"
	"time"
)

// Severity classifies how blocking a violation is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid returns true for a known severity value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank orders severities for comparison: error outranks warning,
// warning outranks info. Unknown severities rank below everything.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 0
	default:
		return -1
	}
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(value)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown severity %q (want error, warning, or info)", value)
	}
	return s, nil
}

// Flavor specifies the Markdown flavor to parse.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true for a known flavor value.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// Format specifies the report output format.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatGitHub  Format = "github"
	FormatSummary Format = "summary"
)

// IsValid returns true for a known format value.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatGitHub, FormatSummary:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration.
// Pointer fields distinguish "not set" from an explicit value so that
// later configuration layers only override what they mention.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" toml:"severity,omitempty"`
	Options  map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// Defaults applied when neither configuration files nor flags say
// otherwise.
const (
	// DefaultTimeout bounds rule execution per document.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxFileSize caps how many bytes are read per input file.
	DefaultMaxFileSize = 10 << 20 // 10 MiB
)

// Config is the root configuration structure for mdcheck.
// File-backed fields carry yaml and toml tags; fields tagged "-" are
// CLI-only and never persisted.
type Config struct {
	// Flavor selects the Markdown dialect ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty" toml:"flavor,omitempty"`

	// SeverityDefault, when set, replaces the built-in default severity
	// of every rule that has no per-rule severity override.
	SeverityDefault string `yaml:"severity_default,omitempty" toml:"severity_default,omitempty"`

	// Format selects the report output format.
	Format Format `yaml:"format,omitempty" toml:"format,omitempty"`

	// Jobs is the number of parallel workers (0 = one per CPU).
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Timeout is the per-document rule execution budget as a duration
	// string ("10s"). Empty selects the default; "0" disables it.
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`

	// MaxFileSize caps how many bytes are read per input file (0 =
	// built-in default).
	MaxFileSize int64 `yaml:"max_file_size,omitempty" toml:"max_file_size,omitempty"`

	// Extensions lists the file extensions treated as Markdown when
	// walking directories.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Include restricts directory walks to paths matching these glob
	// patterns. Empty means everything.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`

	// Exclude lists glob patterns for paths to skip.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`

	// Enable lists rule ids to enable on top of the defaults.
	Enable []string `yaml:"enable,omitempty" toml:"enable,omitempty"`

	// Disable lists rule ids to disable.
	Disable []string `yaml:"disable,omitempty" toml:"disable,omitempty"`

	// Rules contains per-rule configuration keyed by rule id.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// CLI-level options (never persisted to config files).

	// Strict promotes warnings to a blocking exit status.
	Strict bool `yaml:"-" toml:"-"`

	// Output writes the report to a file instead of stdout.
	Output string `yaml:"-" toml:"-"`

	// NoContext suppresses source-line context in text output.
	NoContext bool `yaml:"-" toml:"-"`
}

// New returns a Config with built-in defaults.
func New() *Config {
	return &Config{
		Flavor:      FlavorGFM,
		Format:      FormatText,
		Jobs:        0, // 0 means one worker per CPU
		MaxFileSize: DefaultMaxFileSize,
		Extensions:  []string{".md", ".markdown"},
		Rules:       make(map[string]RuleConfig),
	}
}

// TimeoutDuration resolves the configured per-document timeout.
// An empty value selects DefaultTimeout; a parsed zero disables the
// timeout entirely.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative: %q", c.Timeout)
	}
	return d, nil
}
