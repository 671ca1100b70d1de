package configload

import (
	"os"
	"strconv"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/config"
)

// Environment variables recognized by mdcheck. Each overrides the
// corresponding config file key and is itself overridden by CLI flags.
const (
	EnvFlavor  = "MDCHECK_FLAVOR"
	EnvFormat  = "MDCHECK_FORMAT"
	EnvJobs    = "MDCHECK_JOBS"
	EnvTimeout = "MDCHECK_TIMEOUT"
	EnvExclude = "MDCHECK_EXCLUDE"
)

// LoadFromEnv applies environment variable overrides to cfg. Invalid
// values return a *config.Error; validation of enum values happens
// later with the rest of the configuration.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv(EnvFlavor); v != "" {
		cfg.Flavor = config.Flavor(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = config.Format(v)
	}
	if v := os.Getenv(EnvJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return config.NewError("invalid integer for %s: %q", EnvJobs, v)
		}
		cfg.Jobs = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv(EnvExclude); v != "" {
		cfg.Exclude = splitList(v)
	}

	return nil
}

// splitList parses a comma-separated value, dropping empty elements.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables with their
// descriptions, for help output.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvFlavor:  "Markdown flavor: commonmark or gfm",
		EnvFormat:  "Output format: text, json, github, or summary",
		EnvJobs:    "Number of parallel workers (0 = one per CPU)",
		EnvTimeout: "Per-document rule timeout, e.g. 10s (0 disables)",
		EnvExclude: "Comma-separated glob patterns to skip",
	}
}
