package report

import (
	"bufio"
	"context"
	"fmt"

	"github.com/ledgewell/mdcheck/internal/ui/term"
	"github.com/ledgewell/mdcheck/pkg/batch"
)

// TextRenderer formats results as styled terminal output grouped by
// file.
type TextRenderer struct {
	opts   Options
	styles *term.Styles
}

// NewTextRenderer creates a text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	return &TextRenderer{
		opts:   opts,
		styles: term.NewStyles(term.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, rep *batch.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if rep == nil || len(rep.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return nil
	}

	for i := range rep.Files {
		r.renderFile(bw, &rep.Files[i])
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatRunSummary(rep.Stats, filesWithIssues(rep)))
	}
	return nil
}

// renderFile writes one file block: parse errors first, then the
// violations in document order, then rules that failed to run. Clean
// files print nothing.
func (r *TextRenderer) renderFile(bw *bufio.Writer, file *batch.FileResult) {
	path := displayPath(r.opts.WorkingDir, file.Path)

	if file.Err != nil {
		fmt.Fprintf(bw, "%s: %s\n\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Err)),
		)
		return
	}

	result := file.Result
	if result == nil {
		return
	}
	if len(result.Violations) == 0 && len(result.RuleErrors) == 0 && len(result.ParseErrors) == 0 {
		return
	}

	fmt.Fprintln(bw, r.styles.FormatFileHeader(path, len(result.Violations)))

	for _, pe := range result.ParseErrors {
		fmt.Fprintf(bw, "  %s  %s  %s\n",
			r.styles.Location.Render(fmt.Sprintf("%d:%d", pe.Line, pe.Column)),
			r.styles.Error.Render("parse"),
			r.styles.Message.Render(pe.Message),
		)
	}

	var lines []string
	if r.opts.ShowContext {
		lines = sourceLines(result.Content)
	}
	for i := range result.Violations {
		v := &result.Violations[i]
		fmt.Fprint(bw, r.styles.FormatViolation(v, lineAt(lines, v.StartLine), r.opts.ShowContext))
	}

	for _, re := range result.RuleErrors {
		fmt.Fprintf(bw, "  %s %v\n",
			r.styles.Failure.Render(fmt.Sprintf("rule %s failed:", re.RuleID)),
			re.Err,
		)
	}

	fmt.Fprintln(bw)
}
