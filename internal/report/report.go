// Package report assembles findings, statistics and the schema diff into the
// single result handed back to callers.
package report

import (
	"wlcheck/internal/finding"
	"wlcheck/internal/inference"
	"wlcheck/internal/parser/csv"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/structure"
)

// Verdict is the terminal classification of a run.
type Verdict string

const (
	// Blocked means at least one error; the watchlist must not be deployed.
	Blocked Verdict = "Blocked"
	// Warned means no errors but at least one warning.
	Warned Verdict = "Warned"
	// Clean means no findings at all.
	Clean Verdict = "Clean"
)

// Statistics are reported on every run, including blocked ones.
type Statistics struct {
	TotalRows     int                       `json:"totalRows"`
	TotalColumns  int                       `json:"totalColumns"`
	EmptyFields   int                       `json:"emptyFields"`
	DuplicateRows int                       `json:"duplicateRows"`
	Columns       []inference.ColumnProfile `json:"columns"`
}

// Report is the validation outcome for one file.
type Report struct {
	// RunID identifies a run in logs and stores. It is set by callers; Build
	// leaves it empty so that the same input always builds the same report.
	RunID      string            `json:"runId,omitempty"`
	Watchlist  string            `json:"watchlist,omitempty"`
	Verdict    Verdict           `json:"verdict"`
	Delimiter  string            `json:"delimiter"`
	Errors     []finding.Finding `json:"errors"`
	Warnings   []finding.Finding `json:"warnings"`
	Statistics Statistics        `json:"statistics"`
	SchemaDiff schemadiff.Result `json:"schemaDiff"`
}

// Findings returns errors followed by warnings.
func (r Report) Findings() []finding.Finding {
	out := make([]finding.Finding, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// Input is everything the builder combines.
type Input struct {
	Watchlist     string
	Grid          structure.Grid
	Findings      []finding.Finding
	Profiles      []inference.ColumnProfile
	DuplicateRows int
	Diff          schemadiff.Result
}

// VerdictOf classifies a list of findings.
func VerdictOf(fs []finding.Finding) Verdict {
	switch {
	case finding.HasErrors(fs):
		return Blocked
	case len(fs) > 0:
		return Warned
	default:
		return Clean
	}
}

// Build combines in into a Report. Slices in the result are never nil.
func Build(in Input) Report {
	errs, warns := finding.Split(in.Findings)
	profiles := in.Profiles
	if profiles == nil {
		profiles = []inference.ColumnProfile{}
	}
	diff := in.Diff
	if diff.Added == nil {
		diff.Added = []string{}
	}
	if diff.Removed == nil {
		diff.Removed = []string{}
	}
	return Report{
		Watchlist: in.Watchlist,
		Verdict:   VerdictOf(in.Findings),
		Delimiter: csv.DelimiterName(in.Grid.Delimiter),
		Errors:    errs,
		Warnings:  warns,
		Statistics: Statistics{
			TotalRows:     len(in.Grid.Rows),
			TotalColumns:  len(in.Grid.Header),
			EmptyFields:   in.Grid.EmptyFields(),
			DuplicateRows: in.DuplicateRows,
			Columns:       profiles,
		},
		SchemaDiff: diff,
	}
}
