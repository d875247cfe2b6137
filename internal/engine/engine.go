// Package engine composes the validation stages into one call:
//
//	bytes -> lines -> delimiter + structure -> inference + quality -> report
//	                                        -> schema diff against existing columns
//
// Validate is a pure function of its inputs. It performs no I/O and keeps no
// state between calls, so any number of calls may run concurrently.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math"

	"wlcheck/internal/config"
	"wlcheck/internal/finding"
	"wlcheck/internal/inference"
	"wlcheck/internal/parser/csv"
	"wlcheck/internal/quality"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/structure"
)

// DefaultMaxInputBytes caps ValidateReader input.
const DefaultMaxInputBytes int64 = 100 << 20

// ErrInputTooLarge is returned by ValidateReader when the input exceeds
// Options.MaxInputBytes.
var ErrInputTooLarge = errors.New("input exceeds maximum size")

// Options tunes a run. The zero value is usable; DefaultOptions spells the
// defaults out.
type Options struct {
	// Watchlist names the deployed artifact the file is destined for.
	Watchlist string
	// Delimiters are the candidates in preference order.
	Delimiters []rune
	// SampleLines is the number of data lines used for delimiter detection.
	SampleLines       int
	MaxValueLength    int
	MaxHeaderLength   int
	KeyColumns        []string
	SearchKey         string
	DeepInjectionScan bool
	// DateFormats are Go time layouts accepted as DateTime.
	DateFormats   []string
	MaxInputBytes int64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Delimiters:      append([]rune(nil), csv.DefaultCandidates...),
		SampleLines:     csv.DefaultSampleLines,
		MaxValueLength:  structure.DefaultMaxValueLength,
		MaxHeaderLength: quality.DefaultMaxHeaderLength,
		DateFormats:     append([]string(nil), inference.DefaultDateLayouts...),
		MaxInputBytes:   DefaultMaxInputBytes,
	}
}

// OptionsFromConfig maps the validation section of the configuration onto
// Options.
func OptionsFromConfig(v config.Validation) (Options, error) {
	opt := DefaultOptions()
	if len(v.Delimiters) > 0 {
		opt.Delimiters = opt.Delimiters[:0]
		for _, d := range v.Delimiters {
			r, err := csv.ParseDelimiter(d)
			if err != nil {
				return Options{}, fmt.Errorf("validation.delimiters: %w", err)
			}
			opt.Delimiters = append(opt.Delimiters, r)
		}
	}
	if v.SampleLines > 0 {
		opt.SampleLines = v.SampleLines
	}
	if v.MaxValueLength > 0 {
		opt.MaxValueLength = v.MaxValueLength
	}
	if v.MaxHeaderLength > 0 {
		opt.MaxHeaderLength = v.MaxHeaderLength
	}
	if len(v.DateFormats) > 0 {
		opt.DateFormats = append([]string(nil), v.DateFormats...)
	}
	if v.MaxInputBytes > 0 {
		opt.MaxInputBytes = v.MaxInputBytes
	}
	opt.KeyColumns = append([]string(nil), v.KeyColumns...)
	opt.SearchKey = v.SearchKey
	opt.DeepInjectionScan = v.DeepInjectionScan
	return opt, nil
}

// Validate checks content and compares its header with existing, the
// columns of the currently deployed watchlist (empty when none exists).
//
// Every data problem is reported as a finding; Validate has no failure mode.
// When the file is empty or has no data rows, only that finding is reported
// and the diff is empty.
func Validate(content []byte, existing []string, opt Options) (report.Report, schemadiff.Result) {
	var findings []finding.Finding

	text, err := csv.Decode(content)
	if err != nil {
		findings = append(findings, finding.Warnf(finding.InvalidEncoding,
			"input could not be decoded as UTF-16: %v", err))
		text = string(content)
	}

	sres := structure.Validate(csv.Lines(text), structure.Options{
		Candidates:     opt.Delimiters,
		SampleLines:    opt.SampleLines,
		MaxValueLength: opt.MaxValueLength,
		SearchKey:      opt.SearchKey,
	})
	findings = append(findings, sres.Findings...)

	if sres.Terminal {
		diff := schemadiff.Empty()
		rep := report.Build(report.Input{
			Watchlist: opt.Watchlist,
			Grid:      sres.Grid,
			Findings:  findings,
			Diff:      diff,
		})
		return rep, diff
	}

	g := sres.Grid
	profiles := inference.NewClassifier(opt.DateFormats).Profiles(g)
	findings = append(findings, inference.MixedTypeFindings(profiles)...)
	findings = append(findings, quality.Scan(g, profiles, quality.Options{
		MaxHeaderLength:   opt.MaxHeaderLength,
		KeyColumns:        opt.KeyColumns,
		SearchKey:         opt.SearchKey,
		DeepInjectionScan: opt.DeepInjectionScan,
	})...)

	diff := schemadiff.Decide(existing, g.Header)
	rep := report.Build(report.Input{
		Watchlist:     opt.Watchlist,
		Grid:          g,
		Findings:      findings,
		Profiles:      profiles,
		DuplicateRows: quality.CountDuplicateRows(g),
		Diff:          diff,
	})
	return rep, diff
}

// ValidateReader reads all of r and validates it. A read failure or input
// larger than opt.MaxInputBytes is returned as an error together with zero
// results; no report is synthesized for input that could not be read.
func ValidateReader(r io.Reader, existing []string, opt Options) (report.Report, schemadiff.Result, error) {
	limit := opt.MaxInputBytes
	if limit <= 0 {
		limit = DefaultMaxInputBytes
	}
	if limit == math.MaxInt64 {
		limit--
	}
	content, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return report.Report{}, schemadiff.Result{}, fmt.Errorf("read input: %w", err)
	}
	if int64(len(content)) > limit {
		return report.Report{}, schemadiff.Result{}, fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, limit)
	}
	rep, diff := Validate(content, existing, opt)
	return rep, diff, nil
}
