package config

import (
	"fmt"
	"regexp"
	"strings"

	"wlcheck/internal/parser/csv"
)

// StorageMaxValueLength is the per-cell capacity of the watchlist store.
const StorageMaxValueLength = 8000

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding for a Config.
//
// Path is a dotted path into the config (e.g. "snapshot.dsn",
// "validation.delimiters[1]").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint performs semantic checks that struct tags cannot express. It does not
// mutate cfg. Callers decide whether warnings are fatal.
func Lint(cfg Config) []Issue {
	var issues []Issue
	issues = append(issues, lintValidation(cfg.Validation)...)
	issues = append(issues, lintSnapshot(cfg.Snapshot)...)
	issues = append(issues, lintSource(cfg.Source)...)
	issues = append(issues, lintMetrics(cfg.Metrics)...)
	issues = append(issues, lintServer(cfg.Server, cfg.Validation)...)
	return issues
}

func lintValidation(v Validation) []Issue {
	var issues []Issue

	if len(v.Delimiters) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "validation.delimiters",
			Message:  "no delimiters configured; comma, semicolon and tab will be tried",
		})
	}
	for i, d := range v.Delimiters {
		if _, err := csv.ParseDelimiter(d); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("validation.delimiters[%d]", i),
				Message:  err.Error(),
			})
		}
	}

	if v.MaxValueLength > StorageMaxValueLength {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "validation.max_value_length",
			Message: fmt.Sprintf("max_value_length=%d exceeds the watchlist store limit of %d; oversize values would pass validation and fail deployment",
				v.MaxValueLength, StorageMaxValueLength),
		})
	}
	if v.SampleLines == 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "validation.sample_lines",
			Message:  "sample_lines=1 makes delimiter detection sensitive to a single ragged line",
		})
	}

	for i, layout := range v.DateFormats {
		if !strings.Contains(layout, "06") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("validation.date_formats[%d]", i),
				Message:  fmt.Sprintf("layout %q has no year component; use Go reference time layouts such as 2006-01-02", layout),
			})
		}
	}

	for i, k := range v.KeyColumns {
		if strings.TrimSpace(k) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("validation.key_columns[%d]", i),
				Message:  "empty key column name is ignored",
			})
		}
	}
	return issues
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func lintSnapshot(s Snapshot) []Issue {
	var issues []Issue

	known := map[string]bool{"file": true, "postgres": true, "sqlite": true, "mssql": true, "mysql": true}
	if !known[s.Kind] {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "snapshot.kind",
			Message:  fmt.Sprintf("unknown snapshot kind %q; ensure a matching store is registered", s.Kind),
		})
	}

	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.Dir) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "snapshot.dir",
				Message:  "file snapshot store requires a directory",
			})
		}
	case "postgres", "sqlite", "mssql", "mysql":
		if strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "snapshot.dsn",
				Message:  fmt.Sprintf("%s snapshot store requires a dsn", s.Kind),
			})
		}
		if !identRE.MatchString(s.Table) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "snapshot.table",
				Message:  fmt.Sprintf("table %q is not a plain [schema.]name identifier", s.Table),
			})
		}
	}
	return issues
}

func lintSource(s Source) []Issue {
	var issues []Issue
	if s.InsecureSkipVerify {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.insecure_skip_verify",
			Message:  "TLS certificate verification is disabled for remote inputs",
		})
	}
	if s.Timeout < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.timeout",
			Message:  "timeout must not be negative",
		})
	}
	return issues
}

func lintMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.StatsdAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.statsd_addr",
				Message:  "datadog backend requires statsd_addr",
			})
		}
	}
	if m.Backend != "none" && strings.TrimSpace(m.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.job",
			Message:  "job is empty; metrics will be hard to attribute",
		})
	}
	return issues
}

func lintServer(s Server, v Validation) []Issue {
	if v.MaxInputBytes > 0 && s.MaxBodyBytes > v.MaxInputBytes {
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "server.max_body_bytes",
			Message: fmt.Sprintf("max_body_bytes=%d is larger than validation.max_input_bytes=%d; large uploads will be rejected after reading",
				s.MaxBodyBytes, v.MaxInputBytes),
		}}
	}
	return nil
}
