// Package cli provides the Cobra command structure for mdcheck.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgewell/mdcheck/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdcheck command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var quiet bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdcheck",
		Short: "A fast, configurable Markdown checker",
		Long: `mdcheck checks Markdown documents against a configurable rule catalog.

It parses CommonMark and GitHub Flavored Markdown (GFM) and flags style
and structure problems: whitespace and heading discipline, overlong
lines, broken anchors and undefined references, inconsistent lists, and
malformed front matter. Reports render as annotated text, JSON, GitHub
workflow commands, or a summary table.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			switch {
			case debug:
				logging.SetLevel("debug")
			case quiet:
				logging.SetLevel("error")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Flag misuse is a usage error, not an internal one.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: ExitUsage, err: err}
	})

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
