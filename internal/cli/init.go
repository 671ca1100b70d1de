package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgewell/mdcheck/internal/logging"
	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/fsio"
)

// configFilePermissions is the file mode for configuration files
// (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new mdcheck configuration file",
		Long: `Create a new .mdcheck.yaml configuration file in the current directory
with commented defaults. Edit it to enable or disable rules, change
severities, and set rule options.`,
		Example: `  mdcheck init                   # minimal .mdcheck.yaml
  mdcheck init --full            # every rule listed with its defaults
  mdcheck init --format toml     # .mdcheck.toml instead
  mdcheck init --output ci.yaml  # write to a custom path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every rule with its defaults and options")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .mdcheck.yaml or .mdcheck.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "toml" {
		return usagef("invalid format %q: must be yaml or toml", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".mdcheck.yaml"
		if flags.format == "toml" {
			outputPath = ".mdcheck.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	opts := config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	}
	if flags.full {
		opts.Rules = registryRuleInfos()
	}

	content, err := config.GenerateTemplate(opts)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := writeFileAtomic(cmd.Context(), absPath, content); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'mdcheck rules' to see all available rules")

	return nil
}

// registryRuleInfos snapshots the rule registry as template metadata.
func registryRuleInfos() []config.RuleInfo {
	rules := check.DefaultRegistry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			Options:     ruleOptionDefaults(rule),
		})
	}
	return infos
}

// writeFileAtomic writes content with the config file permissions,
// tolerating commands executed without a context.
func writeFileAtomic(ctx context.Context, path string, content []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return fsio.WriteAtomic(ctx, path, content, configFilePermissions)
}
