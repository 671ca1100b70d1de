package batch

import (
	"time"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/config"
)

// FileResult pairs a checked path with its outcome.
type FileResult struct {
	// Path is the file that was checked.
	Path string

	// Result holds the check outcome. Nil when the file could not be
	// read or checked.
	Result *check.Result

	// Err is set when the file could not be checked at all.
	Err error
}

// Stats captures aggregate counts for a run.
type Stats struct {
	// Files is the number of files discovered.
	Files int

	// Checked is the number of files successfully checked.
	Checked int

	// Failed is the number of files that could not be checked.
	Failed int

	// Violations is the total violation count across all files.
	Violations int

	// Errors, Warnings, and Infos split Violations by severity.
	Errors   int
	Warnings int
	Infos    int

	// RuleErrors counts rules that failed while checking.
	RuleErrors int

	// ParseErrors counts recoverable parse problems.
	ParseErrors int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Report is the overall outcome of a batch run.
type Report struct {
	// Files contains the outcome for each discovered file, ordered by
	// path.
	Files []FileResult

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasViolations reports whether any checked file produced violations.
func (r *Report) HasViolations() bool {
	if r == nil {
		return false
	}
	return r.Stats.Violations > 0
}

// HasErrors reports whether any violation carries error severity.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.Errors > 0
}

// HasFailures reports whether any file could not be checked.
func (r *Report) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Failed > 0
}

// accumulate folds one file outcome into the stats.
func (s *Stats) accumulate(fr FileResult) {
	if fr.Err != nil {
		s.Failed++
		return
	}
	if fr.Result == nil {
		return
	}

	s.Checked++
	s.Violations += len(fr.Result.Violations)
	s.RuleErrors += len(fr.Result.RuleErrors)
	s.ParseErrors += len(fr.Result.ParseErrors)

	for _, v := range fr.Result.Violations {
		switch v.Severity {
		case config.SeverityError:
			s.Errors++
		case config.SeverityInfo:
			s.Infos++
		default:
			s.Warnings++
		}
	}
}
