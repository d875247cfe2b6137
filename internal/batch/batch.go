// Package batch validates watchlist files against their deployed schemas.
// It is the orchestration layer around the pure engine: it opens inputs,
// looks up the deployed column set once per file, runs the engine, and logs
// and records metrics for each outcome.
package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wlcheck/internal/datasource"
	"wlcheck/internal/engine"
	"wlcheck/internal/metrics"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/snapshot"
)

// Fault stages reported on FileResult.Stage and as the metrics "stage" label.
const (
	StageOpen     = "open"
	StageSnapshot = "snapshot"
	StageRead     = "read"
)

// Job is one input to validate.
type Job struct {
	Source datasource.Source
	// Watchlist defaults to Source.Name().
	Watchlist string
	// Existing, when non-nil, is used instead of a snapshot lookup.
	Existing []string
}

// Deps carries what every validation needs.
type Deps struct {
	// Store may be nil, in which case every watchlist without explicit
	// Existing columns is a first deployment.
	Store   snapshot.Store
	Options engine.Options
	// Workers bounds concurrent validations; <=0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
	// Job labels metrics.
	Job string
}

// FileResult is the outcome for one input. Err is set for hard faults, in
// which case Report and Diff are zero.
type FileResult struct {
	Input     string
	Watchlist string
	Report    report.Report
	Diff      schemadiff.Result
	Duration  time.Duration
	Stage     string
	Err       error
}

// Summary counts outcomes across a batch.
type Summary struct {
	Files     int `json:"files"`
	Clean     int `json:"clean"`
	Warned    int `json:"warned"`
	Blocked   int `json:"blocked"`
	Faults    int `json:"faults"`
	Recreates int `json:"recreates"`
}

// Failed reports whether any file was blocked or could not be validated.
func (s Summary) Failed() bool { return s.Blocked > 0 || s.Faults > 0 }

// Add folds one result into the summary.
func (s *Summary) Add(r FileResult) {
	s.Files++
	if r.Err != nil {
		s.Faults++
		return
	}
	switch r.Report.Verdict {
	case report.Clean:
		s.Clean++
	case report.Warned:
		s.Warned++
	case report.Blocked:
		s.Blocked++
	}
	if r.Diff.RequiresRecreate {
		s.Recreates++
	}
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Run validates jobs with at most d.Workers in flight. Per-file faults are
// kept on the results, which are in job order. The returned error is the
// context error, set only when ctx ended before some job started.
func Run(ctx context.Context, jobs []Job, d Deps) ([]FileResult, Summary, error) {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(jobs))
	var (
		g       errgroup.Group
		skipped atomic.Bool
	)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil {
				skipped.Store(true)
			}
			results[i] = d.Process(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	var sum Summary
	for _, r := range results {
		sum.Add(r)
	}
	d.logger().Info("batch finished",
		zap.Int("files", sum.Files),
		zap.Int("clean", sum.Clean),
		zap.Int("warned", sum.Warned),
		zap.Int("blocked", sum.Blocked),
		zap.Int("faults", sum.Faults),
		zap.Int("recreates", sum.Recreates),
	)
	if skipped.Load() {
		return results, sum, ctx.Err()
	}
	return results, sum, nil
}

// Process validates a single job.
func (d Deps) Process(ctx context.Context, job Job) FileResult {
	name := job.Watchlist
	if name == "" {
		name = job.Source.Name()
	}
	res := FileResult{Input: job.Source.String(), Watchlist: name}

	rc, err := job.Source.Open(ctx)
	if err != nil {
		return d.fault(res, StageOpen, err)
	}
	defer rc.Close()
	return d.validate(ctx, res, job.Existing, rc)
}

// ValidateReader validates r as the file for watchlist. It is Process for
// callers that already hold the content, such as the HTTP API.
func (d Deps) ValidateReader(ctx context.Context, input, watchlist string, existing []string, r io.Reader) FileResult {
	return d.validate(ctx, FileResult{Input: input, Watchlist: watchlist}, existing, r)
}

func (d Deps) validate(ctx context.Context, res FileResult, existing []string, r io.Reader) FileResult {
	start := time.Now()
	if existing == nil && d.Store != nil && res.Watchlist != "" {
		cols, err := d.Store.Columns(ctx, res.Watchlist)
		if err != nil {
			return d.fault(res, StageSnapshot, err)
		}
		existing = cols
	}

	opt := d.Options
	opt.Watchlist = res.Watchlist
	rep, diff, err := engine.ValidateReader(r, existing, opt)
	if err != nil {
		return d.fault(res, StageRead, err)
	}
	rep.RunID = uuid.NewString()
	res.Report, res.Diff = rep, diff
	res.Duration = time.Since(start)

	metrics.RecordRun(d.Job, rep.Verdict, res.Duration)
	metrics.RecordFindings(d.Job, rep)
	d.logger().Info("validated",
		zap.String("run_id", rep.RunID),
		zap.String("input", res.Input),
		zap.String("watchlist", res.Watchlist),
		zap.String("verdict", string(rep.Verdict)),
		zap.Int("errors", len(rep.Errors)),
		zap.Int("warnings", len(rep.Warnings)),
		zap.Int("rows", rep.Statistics.TotalRows),
		zap.Bool("requires_recreate", diff.RequiresRecreate),
		zap.Duration("duration", res.Duration),
	)
	return res
}

func (d Deps) fault(res FileResult, stage string, err error) FileResult {
	res.Stage = stage
	res.Err = fmt.Errorf("%s %s: %w", stage, res.Input, err)
	metrics.RecordFault(d.Job, stage)
	d.logger().Error("validation fault",
		zap.String("input", res.Input),
		zap.String("watchlist", res.Watchlist),
		zap.String("stage", stage),
		zap.Error(err),
	)
	return res
}
