package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"wlcheck/internal/batch"
	"wlcheck/internal/datasource"
	"wlcheck/internal/datasource/file"
	"wlcheck/internal/report"
)

// batchLine is the per-file entry of the batch output.
type batchLine struct {
	Input            string         `json:"input"`
	Watchlist        string         `json:"watchlist"`
	Verdict          report.Verdict `json:"verdict,omitempty"`
	Errors           int            `json:"errors"`
	Warnings         int            `json:"warnings"`
	RequiresRecreate bool           `json:"requiresRecreate"`
	DurationMs       int64          `json:"durationMs"`
	Report           string         `json:"report,omitempty"`
	Fault            string         `json:"fault,omitempty"`
}

type batchOutput struct {
	Files   []batchLine   `json:"files"`
	Summary batch.Summary `json:"summary"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		listPath   string
		reportsDir string
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "batch [path|url ...]",
		Short: "Validate many watchlist files concurrently",
		Long: `Validate many watchlist files concurrently and print a JSON summary.

Inputs come from the arguments and from --list (one location per line, blank
lines and # comments ignored). Each watchlist is named after its input and
compared with its snapshot. The exit status is 1 when any file is Blocked and
2 when any file could not be validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inputs := append([]string(nil), args...)
			if listPath != "" {
				listed, err := file.ReadList(listPath)
				if err != nil {
					return err
				}
				inputs = append(inputs, listed...)
			}
			if len(inputs) == 0 {
				return errors.New("no inputs: pass paths or --list")
			}

			jobs := make([]batch.Job, 0, len(inputs))
			for _, in := range inputs {
				src, err := datasource.Resolve(in, a.httpConfig())
				if err != nil {
					return err
				}
				jobs = append(jobs, batch.Job{Source: src})
			}

			d, err := a.deps(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				d.Workers = workers
			}
			if reportsDir != "" {
				if err := os.MkdirAll(reportsDir, 0o755); err != nil {
					return fmt.Errorf("create reports dir: %w", err)
				}
			}

			results, sum, runErr := batch.Run(ctx, jobs, d)
			out := batchOutput{Files: make([]batchLine, 0, len(results)), Summary: sum}
			names := reportFileNames(results)
			for i, r := range results {
				var path string
				if reportsDir != "" {
					path = filepath.Join(reportsDir, names[i])
				}
				line, err := toBatchLine(r, path, a.checkReports)
				if err != nil {
					return err
				}
				out.Files = append(out.Files, line)
			}

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			switch {
			case runErr != nil:
				return runErr
			case sum.Faults > 0:
				return fmt.Errorf("%d of %d files could not be validated", sum.Faults, sum.Files)
			case sum.Blocked > 0:
				return errBlocked
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listPath, "list", "", "file with one input location per line")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "write each full report to <dir>/<watchlist>.json")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent validations (default: batch.workers or one per CPU)")
	return cmd
}

// reportFileNames names each report after its watchlist. Watchlists that
// occur more than once in the batch get their 1-based input position as a
// suffix so that no report overwrites another.
func reportFileNames(results []batch.FileResult) []string {
	seen := make(map[string]int, len(results))
	for _, r := range results {
		seen[r.Watchlist]++
	}
	names := make([]string, len(results))
	for i, r := range results {
		if seen[r.Watchlist] > 1 {
			names[i] = fmt.Sprintf("%s-%d.json", r.Watchlist, i+1)
			continue
		}
		names[i] = r.Watchlist + ".json"
	}
	return names
}

// toBatchLine summarizes r and, when reportPath is set, writes its report there.
func toBatchLine(r batch.FileResult, reportPath string, check bool) (batchLine, error) {
	line := batchLine{
		Input:      r.Input,
		Watchlist:  r.Watchlist,
		DurationMs: r.Duration.Round(time.Millisecond).Milliseconds(),
	}
	if r.Err != nil {
		line.Fault = r.Err.Error()
		return line, nil
	}
	line.Verdict = r.Report.Verdict
	line.Errors = len(r.Report.Errors)
	line.Warnings = len(r.Report.Warnings)
	line.RequiresRecreate = r.Diff.RequiresRecreate
	if reportPath != "" {
		line.Report = reportPath
		if err := writeReport(nil, line.Report, r.Report, check); err != nil {
			return line, err
		}
	}
	return line, nil
}
