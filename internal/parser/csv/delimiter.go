package csv

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// None marks a single-column input where no candidate delimiter occurs.
const None rune = 0

// DefaultCandidates is the detection order; earlier entries win ties.
var DefaultCandidates = []rune{',', ';', '\t'}

// DefaultSampleLines is how many data lines are checked for a stable count.
const DefaultSampleLines = 5

// Detect picks the field separator for a file from its header and the first
// sample data lines.
//
// A candidate is eligible when it splits the header into at least two fields.
// It is stable when every sampled non-blank data line splits into the same
// number of fields as the header. Stable candidates beat unstable ones, then
// the higher header field count wins, then the earlier candidate. When no
// candidate is eligible the input is a single column and None is returned.
func Detect(lines []string, candidates []rune, sample int) rune {
	if len(lines) == 0 {
		return None
	}
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	if sample <= 0 {
		sample = DefaultSampleLines
	}

	data := make([]string, 0, sample)
	for _, l := range lines[1:] {
		if len(data) == sample {
			break
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		data = append(data, l)
	}

	best := None
	bestCount, bestStable := 0, false
	for _, c := range candidates {
		n := len(Split(lines[0], c).Fields)
		if n < 2 {
			continue
		}
		stable := true
		for _, l := range data {
			if len(Split(l, c).Fields) != n {
				stable = false
				break
			}
		}
		switch {
		case best == None,
			stable && !bestStable,
			stable == bestStable && n > bestCount:
			best, bestCount, bestStable = c, n, stable
		}
	}
	return best
}

// ParseDelimiter converts a configured delimiter into a rune. It accepts the
// names "comma", "semicolon", "tab", "pipe" or a single character.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "tab", `\t`:
		return '\t', nil
	case "pipe":
		return '|', nil
	}
	if s == "\t" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return None, fmt.Errorf("delimiter %q: want a single character or one of comma, semicolon, tab, pipe", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\n' || r == '\r' || r == utf8.RuneError {
		return None, fmt.Errorf("delimiter %q is not usable", s)
	}
	return r, nil
}

// DelimiterName renders a delimiter for reports.
func DelimiterName(r rune) string {
	switch r {
	case None:
		return "none"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(r)
	}
}
