// Package main is the entry point for the mdcheck CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgewell/mdcheck/internal/cli"
	"github.com/ledgewell/mdcheck/internal/logging"

	// Import the rule packages to register built-in rules via init().
	_ "github.com/ledgewell/mdcheck/pkg/rules"
	_ "github.com/ledgewell/mdcheck/pkg/rules/frontmatter"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// ErrProblemsFound is just an exit-code signal; the report has
		// already been rendered.
		if !errors.Is(err, cli.ErrProblemsFound) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCodeForError(err)
	}

	return cli.ExitSuccess
}
