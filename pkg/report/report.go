// Package report renders batch results in the output formats mdcheck
// supports: human-readable text, a stable JSON schema, GitHub workflow
// commands, and an aggregate summary table.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// bufWriterSize is the buffer size for output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Renderer formats a batch report for output. Renderers are stateless
// and only handle presentation.
type Renderer interface {
	// Render writes the formatted report to the configured writer.
	Render(ctx context.Context, report *batch.Report) error
}

// Options configures rendering.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format selects the output format.
	Format config.Format

	// Color controls colorized output: "auto", "always", or "never".
	Color string

	// ShowContext includes the offending source line with a caret
	// marker under each violation (text format).
	ShowContext bool

	// ShowSummary appends aggregate statistics after the results.
	ShowSummary bool

	// Compact uses minified output where applicable (JSON).
	Compact bool

	// WorkingDir, when set, makes displayed paths relative to it.
	WorkingDir string
}

// DefaultOptions returns Options with the defaults the CLI uses.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}

// New creates a Renderer for the configured format.
func New(opts Options) (Renderer, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatText:
		return NewTextRenderer(opts), nil
	case config.FormatJSON:
		return NewJSONRenderer(opts), nil
	case config.FormatGitHub:
		return NewGitHubRenderer(opts), nil
	case config.FormatSummary:
		return NewSummaryRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to the working directory when the
// relative form stays inside it.
func displayPath(workDir, path string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// sourceLines splits content into display lines, one entry per source
// line without the line terminator.
func sourceLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// lineAt returns the 1-based line n, or "" when out of range.
func lineAt(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n-1], "\r")
}

// filesWithIssues counts files that produced at least one violation.
func filesWithIssues(rep *batch.Report) int {
	var n int
	for i := range rep.Files {
		if r := rep.Files[i].Result; r != nil && len(r.Violations) > 0 {
			n++
		}
	}
	return n
}
