// Package configload resolves the effective mdcheck configuration.
// It implements XDG-compliant discovery, hierarchical precedence
// merging, environment variable overrides, validation against the rule
// registry, and markdownlint config migration.
package configload

import (
	"context"
	"fmt"
	"os"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config).
	// When set it replaces project config discovery.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips environment variable overrides.
	IgnoreEnv bool

	// Registry validates rule references. Defaults to
	// check.DefaultRegistry when nil.
	Registry *check.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDCHECK_*)
//  3. Explicit config file, or the discovered project config
//  4. User config ($XDG_CONFIG_HOME/mdcheck/config.yaml)
//  5. System config (/etc/mdcheck/config.yaml)
//  6. Defaults
//
// Validation failures return a *config.Error.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.New()

	if !opts.IgnoreSystemConfig && paths.System != "" {
		if cfg, err = mergeFile(cfg, paths.System, result); err != nil {
			return nil, err
		}
	}

	if !opts.IgnoreUserConfig && paths.User != "" {
		if cfg, err = mergeFile(cfg, paths.User, result); err != nil {
			return nil, err
		}
	}

	// An explicit --config replaces project discovery entirely.
	switch {
	case paths.Explicit != "":
		if cfg, err = mergeFile(cfg, paths.Explicit, result); err != nil {
			return nil, err
		}
	case !opts.IgnoreProjectConfig && paths.Project != "":
		if cfg, err = mergeFile(cfg, paths.Project, result); err != nil {
			return nil, err
		}
	default:
		if paths.Markdownlint != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("found %s but no mdcheck config; run 'mdcheck migrate' to convert it", paths.Markdownlint))
		}
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, err
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	registry := opts.Registry
	if registry == nil {
		registry = check.DefaultRegistry
	}
	if err := Validate(cfg, registry); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}

// mergeFile loads one config file and merges it over base.
func mergeFile(base *config.Config, path string, result *LoadResult) (*config.Config, error) {
	layer, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	result.LoadedFrom = append(result.LoadedFrom, path)
	return merge(base, layer), nil
}

// loadConfigFile reads and decodes one configuration file. The codec
// is chosen from the file extension.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, config.NewFileError(path, err)
	}

	// Decode into a zero Config so the merge only sees keys the file
	// actually set.
	cfg := &config.Config{}
	if err := config.Decode(path, content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
