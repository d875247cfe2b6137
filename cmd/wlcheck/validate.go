package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wlcheck/internal/batch"
	"wlcheck/internal/datasource"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		name     string
		existing string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "validate <path|url>",
		Short: "Validate one watchlist file and print its JSON report",
		Long: `Validate one watchlist file and print its JSON report.

The deployed column set is looked up in the snapshot store under the watchlist
name (--name, or the input's base name). Pass --existing to compare against an
explicit comma-separated column list instead; --existing "" means a first
deployment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := datasource.Resolve(args[0], a.httpConfig())
			if err != nil {
				return err
			}
			d, err := a.deps(ctx)
			if err != nil {
				return err
			}
			job := batch.Job{Source: src, Watchlist: name}
			if cmd.Flags().Changed("existing") {
				job.Existing = explicitColumns(existing)
			}

			res := d.Process(ctx, job)
			if res.Err != nil {
				return res.Err
			}
			if err := writeReport(a.out, outPath, res.Report, a.checkReports); err != nil {
				return err
			}
			if res.Report.Verdict == report.Blocked {
				return errBlocked
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "watchlist name (default: input base name)")
	cmd.Flags().StringVar(&existing, "existing", "", "comma-separated deployed columns; skips the snapshot lookup")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to this file instead of stdout")
	return cmd
}

// writeReport renders r to path, or to w when path is empty. With check set
// the rendered JSON must match the published report schema first.
func writeReport(w io.Writer, path string, r report.Report, check bool) error {
	var buf bytes.Buffer
	if err := report.Render(&buf, r); err != nil {
		return err
	}
	if check {
		if err := report.CheckJSON(buf.Bytes()); err != nil {
			return fmt.Errorf("report for %s: %w", r.Watchlist, err)
		}
	}
	if path == "" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// explicitColumns parses a flag value that was set on the command line. The
// result is never nil, so an empty value still bypasses the snapshot store.
func explicitColumns(s string) []string {
	cols := schemadiff.ParseList(s)
	if cols == nil {
		return []string{}
	}
	return cols
}
