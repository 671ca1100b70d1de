package report

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ledgewell/mdcheck/internal/ui/term"
	"github.com/ledgewell/mdcheck/pkg/batch"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// Column layout for the per-rule table.
const (
	ruleColWidth    = 32
	numColWidth     = 7
	warnColWidth    = 9
	maxRuleIDLength = 30

	// durationPrecision rounds the reported wall-clock time.
	durationPrecision = time.Millisecond
)

// ruleCount aggregates violations for one rule across all files.
type ruleCount struct {
	ID       string
	Count    int
	Errors   int
	Warnings int
	Infos    int
}

// SummaryRenderer formats results as a per-rule count table with a
// final status line.
type SummaryRenderer struct {
	opts   Options
	styles *term.Styles
	width  int
}

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	width := term.Width(opts.Writer)
	if width > 80 {
		width = 80
	}
	return &SummaryRenderer{
		opts:   opts,
		styles: term.NewStyles(term.IsColorEnabled(opts.Color, opts.Writer)),
		width:  width,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, rep *batch.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if rep == nil {
		return nil
	}

	rules := aggregateByRule(rep)
	if len(rules) > 0 {
		r.renderRuleTable(bw, rules)
		fmt.Fprintln(bw)
	}

	r.renderStatus(bw, rep)
	return nil
}

// aggregateByRule folds the report's violations into per-rule counts,
// ordered by count descending, then rule ID.
func aggregateByRule(rep *batch.Report) []ruleCount {
	byID := make(map[string]*ruleCount)

	for i := range rep.Files {
		result := rep.Files[i].Result
		if result == nil {
			continue
		}
		for _, v := range result.Violations {
			rc, ok := byID[v.RuleID]
			if !ok {
				rc = &ruleCount{ID: v.RuleID}
				byID[v.RuleID] = rc
			}
			rc.Count++
			switch v.Severity {
			case config.SeverityError:
				rc.Errors++
			case config.SeverityInfo:
				rc.Infos++
			default:
				rc.Warnings++
			}
		}
	}

	rules := make([]ruleCount, 0, len(byID))
	for _, rc := range byID {
		rules = append(rules, *rc)
	}
	slices.SortFunc(rules, func(a, b ruleCount) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return rules
}

func (r *SummaryRenderer) renderRuleTable(bw *bufio.Writer, rules []ruleCount) {
	separator := r.styles.TableSeparator.Render(strings.Repeat("─", r.width))

	fmt.Fprintln(bw, r.styles.Bold.Render("Rule Summary"))
	fmt.Fprintln(bw, separator)

	// Pad first, then style: styling adds invisible escape bytes that
	// would throw off width-based padding.
	fmt.Fprintf(bw, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Info", numColWidth)),
	)
	fmt.Fprintln(bw, separator)

	for _, rule := range rules {
		id := rule.ID
		if len(id) > maxRuleIDLength {
			id = id[:maxRuleIDLength] + "…"
		}

		padded := padRight(id, ruleColWidth)
		var styled string
		switch {
		case rule.Errors > 0:
			styled = r.styles.TableErrorRow.Render(padded)
		case rule.Warnings > 0:
			styled = r.styles.TableWarnRow.Render(padded)
		default:
			styled = r.styles.TableInfoRow.Render(padded)
		}

		fmt.Fprintf(bw, "%s %s %s %s %s\n",
			styled,
			padLeft(strconv.Itoa(rule.Count), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
			padLeft(strconv.Itoa(rule.Infos), numColWidth),
		)
	}
}

// renderStatus prints the worst-severity status line.
func (r *SummaryRenderer) renderStatus(bw *bufio.Writer, rep *batch.Report) {
	stats := rep.Stats

	var status string
	switch {
	case stats.Failed > 0:
		status = r.styles.Failure.Render(fmt.Sprintf("Check failed: %s could not be checked", countWord(stats.Failed, "file")))
	case stats.Errors > 0:
		status = r.styles.Failure.Render("Check failed: " + countWord(stats.Errors, "error"))
	case stats.Warnings > 0:
		status = r.styles.Warning.Render("Check completed: " + countWord(stats.Warnings, "warning"))
	case stats.Infos > 0:
		status = r.styles.Info.Render("Check completed: " + countWord(stats.Infos, "note"))
	default:
		status = r.styles.Success.Render("Check passed")
	}

	detail := fmt.Sprintf(" (%s in %s)", countWord(stats.Checked, "file"), stats.Duration.Round(durationPrecision))
	fmt.Fprintln(bw, status+r.styles.Dim.Render(detail))
}

// padRight pads a string to width with trailing spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to width with leading spaces.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func countWord(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
