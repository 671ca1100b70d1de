package cli_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgewell/mdcheck/internal/cli"
	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/config"
)

func TestCheckCommand_FormatFlag(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	flag := checkCmd.Flags().Lookup("format")
	assert.NotNil(t, flag, "format flag should exist")
	assert.Equal(t, "text", flag.DefValue, "default value should be 'text'")
	assert.Contains(t, flag.Usage, "summary", "format flag help should include 'summary'")
	assert.Contains(t, flag.Usage, "github", "format flag help should include 'github'")
}

func TestCheckCommand_StdinFlags(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	stdinFlag := checkCmd.Flags().Lookup("stdin")
	assert.NotNil(t, stdinFlag, "stdin flag should exist")
	assert.Equal(t, "false", stdinFlag.DefValue)

	pathFlag := checkCmd.Flags().Lookup("stdin-path")
	assert.NotNil(t, pathFlag, "stdin-path flag should exist")
	assert.Equal(t, "", pathFlag.DefValue)
}

func TestCheckCommand_WatchFlagShorthand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	flag := checkCmd.Flags().Lookup("watch")
	assert.NotNil(t, flag, "watch flag should exist")
	assert.Equal(t, "w", flag.Shorthand)
}

func TestExitCodeForReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report *batch.Report
		strict bool
		want   int
	}{
		{
			name:   "nil report",
			report: nil,
			want:   cli.ExitSuccess,
		},
		{
			name:   "clean run",
			report: &batch.Report{Stats: batch.Stats{Checked: 3}},
			want:   cli.ExitSuccess,
		},
		{
			name:   "errors found",
			report: &batch.Report{Stats: batch.Stats{Violations: 2, Errors: 2}},
			want:   cli.ExitViolations,
		},
		{
			name:   "warnings without strict",
			report: &batch.Report{Stats: batch.Stats{Violations: 1, Warnings: 1}},
			want:   cli.ExitSuccess,
		},
		{
			name:   "warnings with strict",
			report: &batch.Report{Stats: batch.Stats{Violations: 1, Warnings: 1}},
			strict: true,
			want:   cli.ExitWarnings,
		},
		{
			name:   "errors outrank strict warnings",
			report: &batch.Report{Stats: batch.Stats{Violations: 3, Errors: 1, Warnings: 2}},
			strict: true,
			want:   cli.ExitViolations,
		},
		{
			name:   "unreadable files",
			report: &batch.Report{Stats: batch.Stats{Failed: 1}},
			want:   cli.ExitIO,
		},
		{
			name:   "errors outrank unreadable files",
			report: &batch.Report{Stats: batch.Stats{Violations: 1, Errors: 1, Failed: 1}},
			want:   cli.ExitViolations,
		},
		{
			name:   "infos never block",
			report: &batch.Report{Stats: batch.Stats{Violations: 4, Infos: 4}},
			strict: true,
			want:   cli.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeForReport(tt.report, tt.strict))
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: cli.ExitSuccess,
		},
		{
			name: "config error",
			err:  config.NewError("unknown rule id %q", "no-such-rule"),
			want: cli.ExitConfig,
		},
		{
			name: "wrapped config error",
			err:  errLink{config.NewError("bad pattern")},
			want: cli.ExitConfig,
		},
		{
			name: "unknown command",
			err:  errors.New(`unknown command "lnit" for "mdcheck"`),
			want: cli.ExitUsage,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: cli.ExitInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeForError(tt.err))
		})
	}
}

// errLink wraps an error the way fmt.Errorf with %w does.
type errLink struct {
	err error
}

func (e errLink) Error() string { return "load configuration: " + e.err.Error() }
func (e errLink) Unwrap() error { return e.err }
