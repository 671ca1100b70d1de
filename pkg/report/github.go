package report

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// GitHubRenderer emits GitHub Actions workflow commands so violations
// show up as inline annotations on pull requests.
type GitHubRenderer struct {
	opts Options
}

// NewGitHubRenderer creates a GitHub workflow-command renderer.
func NewGitHubRenderer(opts Options) *GitHubRenderer {
	return &GitHubRenderer{opts: opts}
}

// Render implements Renderer.
func (r *GitHubRenderer) Render(_ context.Context, rep *batch.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if rep == nil {
		return nil
	}

	for i := range rep.Files {
		file := &rep.Files[i]
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Err != nil {
			fmt.Fprintf(bw, "::error file=%s::%s\n",
				escapeProperty(path), escapeData(file.Err.Error()))
			continue
		}
		if file.Result == nil {
			continue
		}

		for _, pe := range file.Result.ParseErrors {
			fmt.Fprintf(bw, "::error file=%s,line=%d,col=%d::%s\n",
				escapeProperty(path), pe.Line, pe.Column, escapeData(pe.Message))
		}

		for vi := range file.Result.Violations {
			r.renderViolation(bw, path, &file.Result.Violations[vi])
		}

		for _, re := range file.Result.RuleErrors {
			fmt.Fprintf(bw, "::warning file=%s::%s\n",
				escapeProperty(path),
				escapeData(fmt.Sprintf("rule %s failed: %v", re.RuleID, re.Err)))
		}
	}

	return nil
}

func (r *GitHubRenderer) renderViolation(bw *bufio.Writer, path string, v *check.Violation) {
	fmt.Fprintf(bw, "::%s file=%s,line=%d,endLine=%d,col=%d,endColumn=%d,title=%s::%s\n",
		commandLevel(v.Severity),
		escapeProperty(path),
		v.StartLine, v.EndLine,
		v.StartColumn, v.EndColumn,
		escapeProperty(v.RuleID),
		escapeData(v.Message),
	)
}

// commandLevel maps a severity to a workflow command. GitHub knows no
// "info" level, so info violations become notices.
func commandLevel(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "notice"
	default:
		return "warning"
	}
}

// escapeData escapes the message part of a workflow command.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeProperty escapes a property value of a workflow command.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
