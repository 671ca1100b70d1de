package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgewell/mdcheck/internal/configload"
	"github.com/ledgewell/mdcheck/internal/logging"
	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
	"github.com/ledgewell/mdcheck/pkg/fsio"
	"github.com/ledgewell/mdcheck/pkg/markdown"
	"github.com/ledgewell/mdcheck/pkg/report"

	// Register the built-in rules.
	_ "github.com/ledgewell/mdcheck/pkg/rules"
	_ "github.com/ledgewell/mdcheck/pkg/rules/frontmatter"
)

// stdinPath names standard input in reports when --stdin-path is not
// given.
const stdinPath = "<stdin>"

type checkFlags struct {
	format    string
	output    string
	flavor    string
	timeout   string
	jobs      int
	enable    []string
	disable   []string
	exclude   []string
	strict    bool
	noContext bool
	watch     bool
	stdin     bool
	stdinPath string
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Markdown files for problems",
		Long: `Check Markdown files for style and structure problems.

By default, checks all .md and .markdown files under the current
directory. Specify paths to check particular files, directories, or
glob patterns. The path "-" reads a single document from standard
input.

Environment variables:
` + envVarHelp(),
		Example: `  mdcheck check                      # check the current directory
  mdcheck check docs/ README.md      # check a directory and a file
  mdcheck check 'docs/**/*.md'       # check a glob pattern
  cat draft.md | mdcheck check -     # check standard input
  mdcheck check --format json        # machine-readable output for CI
  mdcheck check --watch docs/        # re-check files as they change
  mdcheck check --strict             # warnings block the exit code`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, github, summary")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.timeout, "timeout", "", "per-document rule timeout (0 disables)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = one per CPU)")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule ids to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule ids to disable")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as blocking for the exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source context in text output")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "watch files and re-check on change")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read a single document from standard input")
	cmd.Flags().StringVar(&flags.stdinPath, "stdin-path", "", "path to attribute stdin input to in reports")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	useStdin := flags.stdin
	if len(args) == 1 && args[0] == "-" {
		useStdin = true
		args = nil
	}
	switch {
	case useStdin && len(args) > 0:
		return usagef("cannot combine stdin with file paths")
	case useStdin && flags.watch:
		return usagef("cannot combine --watch with stdin")
	case flags.stdinPath != "" && !useStdin:
		return usagef(`--stdin-path requires --stdin or the path "-"`)
	}

	cfg, workDir, err := loadCheckConfig(cmd, flags)
	if err != nil {
		return err
	}

	checker, err := buildChecker(cfg)
	if err != nil {
		return err
	}

	if useStdin {
		return checkStdin(ctx, cmd, checker, cfg, flags.stdinPath, workDir)
	}

	opts := batch.Options{
		Paths:       args,
		WorkingDir:  workDir,
		Extensions:  cfg.Extensions,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		Jobs:        cfg.Jobs,
		MaxFileSize: cfg.MaxFileSize,
	}

	if flags.watch {
		return checkWatch(ctx, cmd, checker, cfg, opts, workDir)
	}

	rep, err := batch.Run(ctx, checker, opts)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	return finishRun(ctx, cmd, cfg, rep, workDir)
}

// loadCheckConfig resolves the effective configuration for one run:
// config files, environment, then the flags that were actually set.
func loadCheckConfig(cmd *cobra.Command, flags *checkFlags) (*config.Config, string, error) {
	logger := logging.FromContext(cmd.Context())

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	cliCfg := &config.Config{
		Enable:    flags.enable,
		Disable:   flags.disable,
		Exclude:   flags.exclude,
		Strict:    flags.strict,
		Output:    flags.output,
		NoContext: flags.noContext,
	}

	// Flag defaults must not shadow file or environment settings, so
	// only flags the user actually set reach the merge.
	fs := cmd.Flags()
	if fs.Changed("format") {
		cliCfg.Format = config.Format(flags.format)
	}
	if fs.Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flags.flavor)
	}
	if fs.Changed("jobs") {
		cliCfg.Jobs = flags.jobs
	}
	if fs.Changed("timeout") {
		cliCfg.Timeout = flags.timeout
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := configload.Load(ctx, configload.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", err
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfigFile, result.LoadedFrom)
	}

	return result.Config, workDir, nil
}

// buildChecker assembles the parser and the resolved rule set.
func buildChecker(cfg *config.Config) (*check.Checker, error) {
	ruleSet, err := check.NewRuleSet(check.DefaultRegistry, cfg)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, config.NewError("invalid timeout: %v", err)
	}

	checker := check.NewChecker(markdown.NewParser(cfg.Flavor), ruleSet)
	checker.Timeout = timeout
	return checker, nil
}

// checkStdin checks a single document read from standard input.
func checkStdin(ctx context.Context, cmd *cobra.Command, checker *check.Checker, cfg *config.Config, displayPath, workDir string) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return &exitError{code: ExitIO, err: fmt.Errorf("read stdin: %w", err)}
	}

	if displayPath == "" {
		displayPath = stdinPath
	}

	rep := batch.RunContent(ctx, checker, displayPath, content)
	return finishRun(ctx, cmd, cfg, rep, workDir)
}

// checkWatch runs one full pass and then re-checks files as they
// change, until the context is cancelled.
func checkWatch(ctx context.Context, cmd *cobra.Command, checker *check.Checker, cfg *config.Config, opts batch.Options, workDir string) error {
	logger := logging.FromContext(ctx)

	watcher, err := batch.NewWatcher(opts, batch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	rep, err := batch.Run(ctx, checker, opts)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if err := renderReport(ctx, cmd, cfg, rep, workDir); err != nil {
		return err
	}

	if len(opts.Paths) == 0 {
		logger.Info("watching for changes", logging.FieldWorkingDir, workDir)
	} else {
		logger.Info("watching for changes", logging.FieldPaths, opts.Paths)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case changed, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			// The watcher reports deletions too; there is nothing left
			// to check for those.
			remaining := changed[:0:0]
			for _, path := range changed {
				if fsio.Exists(path) {
					remaining = append(remaining, path)
				}
			}
			if len(remaining) == 0 {
				continue
			}
			passOpts := opts
			passOpts.Paths = remaining
			rep, err := batch.Run(ctx, checker, passOpts)
			if err != nil {
				logger.Error("check failed", logging.FieldError, err)
				continue
			}
			if err := renderReport(ctx, cmd, cfg, rep, workDir); err != nil {
				return err
			}
		}
	}
}

// finishRun renders the report and turns its outcome into the exit
// status.
func finishRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, rep *batch.Report, workDir string) error {
	if err := renderReport(ctx, cmd, cfg, rep, workDir); err != nil {
		return err
	}
	if code := ExitCodeForReport(rep, cfg.Strict); code != ExitSuccess {
		return &exitError{code: code, err: ErrProblemsFound}
	}
	return nil
}

// envVarHelp formats the recognized environment variables for the
// command's long help.
func envVarHelp() string {
	vars := configload.ListEnvVars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-17s %s\n", name, vars[name])
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReport renders rep in the configured format, to stdout or the
// --output file.
func renderReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, rep *batch.Report, workDir string) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	opts := report.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      cfg.Format,
		Color:       colorMode,
		ShowContext: !cfg.NoContext,
		ShowSummary: true,
		WorkingDir:  workDir,
	}

	if cfg.Output == "" {
		renderer, err := report.New(opts)
		if err != nil {
			return fmt.Errorf("prepare report: %w", err)
		}
		return renderer.Render(ctx, rep)
	}

	// File output is never colorized.
	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	renderer, err := report.New(opts)
	if err != nil {
		return fmt.Errorf("prepare report: %w", err)
	}
	if err := renderer.Render(ctx, rep); err != nil {
		return err
	}
	if err := fsio.WriteAtomic(ctx, cfg.Output, buf.Bytes(), fsio.DefaultFileMode); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
