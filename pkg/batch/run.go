package batch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgewell/mdcheck/pkg/check"
	"github.com/ledgewell/mdcheck/pkg/fsio"
)

// Run discovers the files named by opts and checks them in parallel.
// Per-file read and check failures are recorded on the file's report
// entry; only cancellation aborts the run.
func Run(ctx context.Context, checker *check.Checker, opts Options) (*Report, error) {
	started := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Files: make([]FileResult, len(files))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.effectiveJobs())

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := fsio.ReadFileCapped(gctx, path, opts.MaxFileSize)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				report.Files[i] = FileResult{Path: path, Err: err}
				return nil
			}

			result, err := checker.Check(gctx, path, content)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				report.Files[i] = FileResult{Path: path, Err: err}
				return nil
			}

			report.Files[i] = FileResult{Path: path, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	report.Stats.Files = len(files)
	for _, fr := range report.Files {
		report.Stats.accumulate(fr)
	}
	report.Stats.Duration = time.Since(started)

	return report, nil
}

// RunContent checks a single in-memory document. It backs stdin input,
// where there is nothing to discover.
func RunContent(ctx context.Context, checker *check.Checker, path string, content []byte) *Report {
	started := time.Now()

	fr := FileResult{Path: path}
	result, err := checker.Check(ctx, path, content)
	if err != nil {
		fr.Err = err
	} else {
		fr.Result = result
	}

	report := &Report{Files: []FileResult{fr}}
	report.Stats.Files = 1
	report.Stats.accumulate(fr)
	report.Stats.Duration = time.Since(started)

	return report
}
