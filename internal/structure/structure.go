// Package structure checks the file-level and line-level shape of a
// delimited file and produces the RawGrid the later stages work on.
package structure

import (
	"strings"
	"unicode/utf8"

	"wlcheck/internal/finding"
	"wlcheck/internal/parser/csv"
)

// DefaultMaxValueLength is the per-cell capacity of the watchlist store.
const DefaultMaxValueLength = 8000

// Options controls structural validation. Zero values select defaults.
type Options struct {
	// Candidates are the delimiters tried, in preference order.
	Candidates []rune
	// SampleLines is how many data lines delimiter detection inspects.
	SampleLines int
	// MaxValueLength is the maximum cell length in characters.
	MaxValueLength int
	// SearchKey, when set, must be present in the header.
	SearchKey string
}

// Row is one data line of the grid.
type Row struct {
	// Number is the physical line number (header = 1).
	Number int
	// Raw is the line text without its terminator.
	Raw string
	// Cells holds exactly one value per header column. Missing cells are
	// empty and surplus cells are dropped; Width keeps the original count.
	Cells []string
	Width int
	// Blank is set for lines that are empty after trimming.
	Blank bool
}

// Grid is the parsed file: the detected delimiter, the trimmed header names
// and every data row in file order.
type Grid struct {
	Delimiter rune
	Header    []string
	Rows      []Row
}

// EmptyFields counts data cells that are empty after trimming.
func (g Grid) EmptyFields() int {
	n := 0
	for _, r := range g.Rows {
		for _, c := range r.Cells {
			if strings.TrimSpace(c) == "" {
				n++
			}
		}
	}
	return n
}

// Column returns the values of column i in row order.
func (g Grid) Column(i int) []string {
	out := make([]string, len(g.Rows))
	for j, r := range g.Rows {
		out[j] = r.Cells[i]
	}
	return out
}

// Index returns the position of the named header column, or -1.
func (g Grid) Index(name string) int {
	for i, h := range g.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Result is the outcome of Validate.
type Result struct {
	Grid     Grid
	Findings []finding.Finding
	// Terminal is set for empty-file and no-data-rows; no later stage runs.
	Terminal bool
}

// Validate detects the delimiter, splits every line and reports structural
// defects. Each line reports at most one of malformed-quotes,
// boundary-delimiter, consecutive-delimiters, column-count-mismatch and
// value-too-long, checked in that order. All other lines are still checked.
func Validate(lines []csv.Line, opt Options) Result {
	if opt.MaxValueLength <= 0 {
		opt.MaxValueLength = DefaultMaxValueLength
	}
	var res Result
	// Leading blank lines are skipped; the header is the first non-blank line
	// and every row keeps its physical number.
	for len(lines) > 0 && lines[0].Blank() {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		res.Findings = append(res.Findings, finding.Errorf(finding.EmptyFile, "file contains no lines"))
		res.Terminal = true
		return res
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	delim := csv.Detect(texts, opt.Candidates, opt.SampleLines)
	res.Grid.Delimiter = delim

	head := csv.Split(lines[0].Text, delim)
	header := csv.StripHeaderBOM(head.Fields)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	res.Grid.Header = header
	width := len(header)

	c := checker{delim: delim, header: header, maxLen: opt.MaxValueLength}
	res.Findings = append(res.Findings, c.encoding(lines[0])...)
	if f, bad := c.line(lines[0], head, width); bad {
		res.Findings = append(res.Findings, f)
	}
	res.Findings = append(res.Findings, duplicateHeaders(header)...)
	if opt.SearchKey != "" && res.Grid.Index(opt.SearchKey) < 0 {
		res.Findings = append(res.Findings, finding.Errorf(finding.SearchKeyMissing,
			"search key column %q is not present in the header", opt.SearchKey).InColumn(opt.SearchKey))
	}

	if len(lines) == 1 {
		res.Findings = append(res.Findings, finding.Errorf(finding.NoDataRows, "file has a header but no data rows"))
		res.Terminal = true
		return res
	}

	res.Grid.Rows = make([]Row, 0, len(lines)-1)
	for _, l := range lines[1:] {
		if l.Blank() {
			res.Grid.Rows = append(res.Grid.Rows, Row{
				Number: l.Number,
				Raw:    l.Text,
				Cells:  make([]string, width),
				Blank:  true,
			})
			continue
		}
		res.Findings = append(res.Findings, c.encoding(l)...)
		rec := csv.Split(l.Text, delim)
		if f, bad := c.line(l, rec, width); bad {
			res.Findings = append(res.Findings, f)
		}
		res.Grid.Rows = append(res.Grid.Rows, Row{
			Number: l.Number,
			Raw:    l.Text,
			Cells:  csv.FitRowToWidth(rec.Fields, width),
			Width:  len(rec.Fields),
		})
	}
	return res
}

type checker struct {
	delim  rune
	header []string
	maxLen int
}

// line returns the first structural error on l, if any.
func (c checker) line(l csv.Line, rec csv.Record, width int) (finding.Finding, bool) {
	if rec.UnclosedQuote {
		return finding.Errorf(finding.MalformedQuotes, "quote is not closed before end of line").AtRow(l.Number), true
	}
	if c.delim != csv.None {
		d := string(c.delim)
		text := strings.Trim(l.Text, strings.ReplaceAll(" \t", d, ""))
		if strings.HasPrefix(text, d) || strings.HasSuffix(text, d) {
			return finding.Errorf(finding.BoundaryDelimiter,
				"line begins or ends with the %s delimiter", csv.DelimiterName(c.delim)).AtRow(l.Number), true
		}
		if rec.AdjacentDelims {
			return finding.Errorf(finding.ConsecutiveDelimiters,
				"line contains consecutive %s delimiters", csv.DelimiterName(c.delim)).AtRow(l.Number), true
		}
	}
	if len(rec.Fields) != width {
		return finding.Errorf(finding.ColumnCountMismatch,
			"expected %d columns, found %d", width, len(rec.Fields)).AtRow(l.Number), true
	}
	for i, v := range rec.Fields {
		if n := utf8.RuneCountInString(v); n > c.maxLen {
			return finding.Errorf(finding.ValueTooLong,
				"value is %d characters; the maximum is %d", n, c.maxLen).AtRow(l.Number).InColumn(c.header[i]), true
		}
	}
	return finding.Finding{}, false
}

func (c checker) encoding(l csv.Line) []finding.Finding {
	if utf8.ValidString(l.Text) {
		return nil
	}
	return []finding.Finding{finding.Warnf(finding.InvalidEncoding, "line is not valid UTF-8").AtRow(l.Number)}
}

// duplicateHeaders reports each repeated header name once, in order of its
// second appearance.
func duplicateHeaders(header []string) []finding.Finding {
	var out []finding.Finding
	seen := make(map[string]int, len(header))
	for _, h := range header {
		seen[h]++
		if seen[h] == 2 {
			out = append(out, finding.Errorf(finding.DuplicateHeader,
				"header %q appears more than once", h).AtRow(1).InColumn(h))
		}
	}
	return out
}
