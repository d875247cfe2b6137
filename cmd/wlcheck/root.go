package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wlcheck/internal/batch"
	"wlcheck/internal/config"
	"wlcheck/internal/datasource/httpds"
	"wlcheck/internal/engine"
	"wlcheck/internal/logging"
	"wlcheck/internal/metrics"
	"wlcheck/internal/metrics/datadog"
	"wlcheck/internal/metrics/prompush"
	"wlcheck/internal/snapshot"

	// register every snapshot kind; config picks one
	_ "wlcheck/internal/snapshot/all"
)

// errBlocked signals that at least one file was Blocked. The report has
// already been written, so main only sets the exit status.
var errBlocked = errors.New("blocked")

// app is the state shared by all subcommands.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
	out     io.Writer
	errOut  io.Writer

	// checkReports validates every written report against the report schema.
	checkReports bool

	closers []func() error
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "wlcheck",
		Short:         "Validate watchlist CSV files and diff their schema against the deployed one",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file (environment variables WLCHECK_* override it)")
	root.PersistentFlags().BoolVar(&a.checkReports, "check-reports", false, "fail when a rendered report does not match the published report schema")

	root.AddCommand(
		newValidateCmd(a),
		newBatchCmd(a),
		newDiffCmd(a),
		newServeCmd(a),
		newSnapshotCmd(a),
	)
	withTeardown(root, a)
	return root
}

// withTeardown wraps every runnable command so that teardown also runs when
// RunE fails; cobra skips post-run hooks on error.
func withTeardown(cmd *cobra.Command, a *app) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if terr := a.teardown(); err == nil {
				err = terr
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		withTeardown(sub, a)
	}
}

// setup loads and lints the configuration, then builds the logger and the
// metrics backend.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	issues := config.Lint(*cfg)
	for _, iss := range issues {
		fmt.Fprintln(a.errOut, iss.Error())
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log = log
	a.closers = append(a.closers, func() error { _ = log.Sync(); return nil })

	return a.setupMetrics()
}

func (a *app) setupMetrics() error {
	m := a.cfg.Metrics
	switch m.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(m.Job, m.PushgatewayURL)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       m.StatsdAddr,
			GlobalTags: []string{"service:wlcheck", "job:" + m.Job},
		})
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics.SetBackend(b)
		a.closers = append(a.closers, b.Close)
	default:
		return nil
	}
	a.log.Debug("metrics enabled", zap.String("backend", m.Backend))
	return nil
}

// teardown flushes metrics and releases resources in reverse order.
func (a *app) teardown() error {
	if a.cfg != nil && a.cfg.Metrics.Backend != "none" {
		if err := metrics.Flush(); err != nil && a.log != nil {
			a.log.Warn("metrics flush failed", zap.Error(err))
		}
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openStore opens the configured snapshot store; teardown closes it.
func (a *app) openStore(ctx context.Context) (snapshot.Store, error) {
	s := a.cfg.Snapshot
	st, err := snapshot.Open(ctx, snapshot.Config{Kind: s.Kind, DSN: s.DSN, Table: s.Table, Dir: s.Dir})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	return st, nil
}

func (a *app) httpConfig() httpds.Config {
	s := a.cfg.Source
	return httpds.Config{
		Timeout:            s.Timeout,
		MaxRetries:         s.MaxRetries,
		InsecureSkipVerify: s.InsecureSkipVerify,
	}
}

// deps assembles what batch and server need from the configuration.
func (a *app) deps(ctx context.Context) (batch.Deps, error) {
	opt, err := engine.OptionsFromConfig(a.cfg.Validation)
	if err != nil {
		return batch.Deps{}, err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return batch.Deps{}, err
	}
	return batch.Deps{
		Store:   st,
		Options: opt,
		Workers: a.cfg.Batch.Workers,
		Logger:  a.log,
		Job:     a.cfg.Metrics.Job,
	}, nil
}
