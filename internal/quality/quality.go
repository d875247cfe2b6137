// Package quality scans a parsed grid for data-quality and security issues.
// Everything it reports is a warning.
package quality

import (
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
	"github.com/zeebo/xxh3"

	"wlcheck/internal/finding"
	"wlcheck/internal/inference"
	"wlcheck/internal/structure"
)

// Options controls the scanner. Zero values select defaults.
type Options struct {
	MaxHeaderLength int
	// KeyColumns are always checked for duplicate values.
	KeyColumns []string
	// SearchKey is the watchlist alias column. Empty cells in it are
	// reported and it is always checked for duplicates.
	SearchKey string
	// DeepInjectionScan runs libinjection over every cell.
	DeepInjectionScan bool
}

// Scan runs every quality check over g. Header findings come first, then
// row findings in file order, then duplicate findings in header order.
func Scan(g structure.Grid, profiles []inference.ColumnProfile, opt Options) []finding.Finding {
	out := HeaderFindings(g.Header, opt.MaxHeaderLength)
	out = append(out, RowFindings(g, opt)...)
	out = append(out, DuplicateFindings(g, profiles, opt)...)
	return out
}

// injectionLeads are the characters spreadsheets treat as a formula start.
const injectionLeads = "=+-@"

// RowFindings reports empty rows, formula-injection candidates and empty
// search-key cells.
func RowFindings(g structure.Grid, opt Options) []finding.Finding {
	var out []finding.Finding
	key := -1
	if opt.SearchKey != "" {
		key = g.Index(opt.SearchKey)
	}
	for _, r := range g.Rows {
		if r.Blank || allEmpty(r.Cells) {
			out = append(out, finding.Warnf(finding.EmptyRow, "row is empty").AtRow(r.Number))
			continue
		}
		for i, c := range r.Cells {
			v := strings.TrimSpace(c)
			if v == "" {
				if i == key {
					out = append(out, finding.Warnf(finding.SearchKeyEmpty,
						"search key %q is empty", opt.SearchKey).AtRow(r.Number).InColumn(g.Header[i]))
				}
				continue
			}
			if strings.IndexByte(injectionLeads, v[0]) >= 0 {
				out = append(out, finding.Warnf(finding.InjectionRisk,
					"value begins with %q and may be evaluated as a formula", v[:1]).AtRow(r.Number).InColumn(g.Header[i]))
			}
			if opt.DeepInjectionScan {
				out = append(out, deepScan(v, r.Number, g.Header[i])...)
			}
		}
	}
	return out
}

func deepScan(v string, row int, col string) []finding.Finding {
	var out []finding.Finding
	if ok, fp := libinjection.IsSQLi(v); ok {
		out = append(out, finding.Warnf(finding.SQLInjectionPattern,
			"value matches a SQL injection pattern (fingerprint %s)", fp).AtRow(row).InColumn(col))
	}
	if libinjection.IsXSS(v) {
		out = append(out, finding.Warnf(finding.XSSPattern,
			"value matches a cross-site scripting pattern").AtRow(row).InColumn(col))
	}
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DuplicateFindings reports repeated values in identity-like columns: those
// dominated by Email or GUID, the configured key columns and the search
// key. Values are compared trimmed and case-folded; the count is the number
// of non-empty values minus the number of distinct ones.
func DuplicateFindings(g structure.Grid, profiles []inference.ColumnProfile, opt Options) []finding.Finding {
	want := make(map[int]string, len(g.Header))
	for _, p := range profiles {
		if p.DominantType == inference.Email || p.DominantType == inference.GUID {
			want[p.Index] = string(p.DominantType)
		}
	}
	for _, k := range append(append([]string(nil), opt.KeyColumns...), opt.SearchKey) {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if i := g.Index(k); i >= 0 {
			if _, ok := want[i]; !ok {
				want[i] = "key"
			}
		}
	}

	var out []finding.Finding
	for i, name := range g.Header {
		kind, ok := want[i]
		if !ok {
			continue
		}
		if n := countDuplicates(g.Column(i)); n > 0 {
			out = append(out, finding.Warnf(finding.DuplicateValues,
				"column %q has %d duplicate %s values", name, n, kind).InColumn(name))
		}
	}
	return out
}

func countDuplicates(values []string) int {
	seen := make(map[uint64]struct{}, len(values))
	dups := 0
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		h := xxh3.HashString(v)
		if _, ok := seen[h]; ok {
			dups++
			continue
		}
		seen[h] = struct{}{}
	}
	return dups
}

// CountDuplicateRows returns how many non-blank data rows repeat an earlier
// row byte for byte.
func CountDuplicateRows(g structure.Grid) int {
	seen := make(map[uint64]struct{}, len(g.Rows))
	dups := 0
	for _, r := range g.Rows {
		if r.Blank {
			continue
		}
		h := xxh3.HashString(r.Raw)
		if _, ok := seen[h]; ok {
			dups++
			continue
		}
		seen[h] = struct{}{}
	}
	return dups
}
