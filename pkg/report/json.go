package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ledgewell/mdcheck/pkg/batch"
)

// schemaVersion identifies the JSON output schema. Bump on any
// incompatible change.
const schemaVersion = "1.0"

// jsonOutput is the top-level JSON structure. All collections are
// slices so field and element order stay deterministic.
type jsonOutput struct {
	SchemaVersion string      `json:"schemaVersion"`
	Files         []jsonFile  `json:"files"`
	Summary       jsonSummary `json:"summary"`
}

// jsonFile represents a single file's results.
type jsonFile struct {
	Path        string           `json:"path"`
	Violations  []jsonViolation  `json:"violations"`
	RuleErrors  []jsonRuleError  `json:"ruleErrors,omitempty"`
	ParseErrors []jsonParseError `json:"parseErrors,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// jsonViolation represents a single violation.
type jsonViolation struct {
	RuleID    string `json:"ruleId"`
	Severity  string `json:"severity"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
}

// jsonRuleError represents a rule that failed to run.
type jsonRuleError struct {
	RuleID string `json:"ruleId"`
	Error  string `json:"error"`
}

// jsonParseError represents a recovered parse problem.
type jsonParseError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// jsonSummary carries the aggregate statistics.
type jsonSummary struct {
	Files       int   `json:"files"`
	Checked     int   `json:"checked"`
	Failed      int   `json:"failed"`
	Violations  int   `json:"violations"`
	Errors      int   `json:"errors"`
	Warnings    int   `json:"warnings"`
	Infos       int   `json:"infos"`
	RuleErrors  int   `json:"ruleErrors"`
	ParseErrors int   `json:"parseErrors"`
	DurationMs  int64 `json:"durationMs"`
}

// JSONRenderer formats results as JSON.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, rep *batch.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(rep)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONRenderer) buildOutput(rep *batch.Report) *jsonOutput {
	output := &jsonOutput{
		SchemaVersion: schemaVersion,
		Files:         make([]jsonFile, 0),
	}
	if rep == nil {
		return output
	}

	if len(rep.Files) > 0 {
		output.Files = make([]jsonFile, 0, len(rep.Files))
	}

	for i := range rep.Files {
		file := &rep.Files[i]
		jf := jsonFile{
			Path:       displayPath(r.opts.WorkingDir, file.Path),
			Violations: make([]jsonViolation, 0),
		}

		if file.Err != nil {
			jf.Error = file.Err.Error()
		}

		if result := file.Result; result != nil {
			for _, v := range result.Violations {
				jf.Violations = append(jf.Violations, jsonViolation{
					RuleID:    v.RuleID,
					Severity:  string(v.Severity),
					Line:      v.StartLine,
					Column:    v.StartColumn,
					EndLine:   v.EndLine,
					EndColumn: v.EndColumn,
					Message:   v.Message,
					Hint:      v.Hint,
				})
			}
			for _, re := range result.RuleErrors {
				jf.RuleErrors = append(jf.RuleErrors, jsonRuleError{
					RuleID: re.RuleID,
					Error:  re.Err.Error(),
				})
			}
			for _, pe := range result.ParseErrors {
				jf.ParseErrors = append(jf.ParseErrors, jsonParseError{
					Line:    pe.Line,
					Column:  pe.Column,
					Message: pe.Message,
				})
			}
		}

		output.Files = append(output.Files, jf)
	}

	stats := rep.Stats
	output.Summary = jsonSummary{
		Files:       stats.Files,
		Checked:     stats.Checked,
		Failed:      stats.Failed,
		Violations:  stats.Violations,
		Errors:      stats.Errors,
		Warnings:    stats.Warnings,
		Infos:       stats.Infos,
		RuleErrors:  stats.RuleErrors,
		ParseErrors: stats.ParseErrors,
		DurationMs:  stats.Duration.Milliseconds(),
	}

	return output
}
