package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// Process exit codes. The sysexits-style values (64 and up)
// distinguish operational failures from check outcomes so CI scripts
// can tell "the documents have problems" apart from "the tool could
// not run".
const (
	// ExitSuccess means the run completed with nothing blocking.
	ExitSuccess = 0

	// ExitViolations means error-severity violations were found.
	ExitViolations = 1

	// ExitWarnings means warning-severity violations were found and
	// --strict promoted them to blocking.
	ExitWarnings = 2

	// ExitUsage means the command line itself was invalid.
	ExitUsage = 64

	// ExitConfig means the configuration could not be loaded or
	// references unknown rule ids.
	ExitConfig = 65

	// ExitInternal means an unexpected internal failure.
	ExitInternal = 70

	// ExitIO means at least one input could not be read.
	ExitIO = 74
)

// ErrProblemsFound signals a completed run whose report blocks a clean
// exit. The rendered report already carries the details; this sentinel
// only selects the exit code and suppresses duplicate error output.
var ErrProblemsFound = errors.New("problems found")

// ExitCodeForReport selects the exit code for a finished run. Error
// violations outrank everything else, warnings block only under
// strict, and unreadable files surface as an I/O failure when no
// violation outranks them.
func ExitCodeForReport(rep *batch.Report, strict bool) int {
	if rep == nil {
		return ExitSuccess
	}
	switch {
	case rep.Stats.Errors > 0:
		return ExitViolations
	case strict && rep.Stats.Warnings > 0:
		return ExitWarnings
	case rep.Stats.Failed > 0:
		return ExitIO
	default:
		return ExitSuccess
	}
}

// ExitCodeForError maps a command error to its exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}

	// Cobra reports unknown subcommands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}

	return ExitInternal
}

// exitError carries a specific exit code through the error return
// path. Wrapped causes stay visible to errors.Is and errors.As.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// usagef builds a usage error that exits with ExitUsage.
func usagef(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}
