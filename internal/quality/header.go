package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wlcheck/internal/finding"
)

// DefaultMaxHeaderLength is the header-too-long threshold in characters.
const DefaultMaxHeaderLength = 64

// HeaderFindings checks header names. Each rule yields its own warning; an
// empty name only reports header-empty.
func HeaderFindings(header []string, maxLen int) []finding.Finding {
	if maxLen <= 0 {
		maxLen = DefaultMaxHeaderLength
	}
	var out []finding.Finding
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			out = append(out, finding.Warnf(finding.HeaderEmpty,
				"header column %d has no name", i+1).AtRow(1))
			continue
		}
		if bad := invalidHeaderRunes(h); bad != "" {
			out = append(out, finding.Warnf(finding.HeaderInvalidChars,
				"header %q contains %q; consider %q", h, bad, SuggestName(h)).AtRow(1).InColumn(h))
		}
		if r, _ := utf8.DecodeRuneInString(h); unicode.IsDigit(r) {
			out = append(out, finding.Warnf(finding.HeaderStartsWithDigit,
				"header %q starts with a digit; consider %q", h, SuggestName(h)).AtRow(1).InColumn(h))
		}
		if n := utf8.RuneCountInString(h); n > maxLen {
			out = append(out, finding.Warnf(finding.HeaderTooLong,
				"header %q is %d characters; the limit is %d", h, n, maxLen).AtRow(1).InColumn(h))
		}
	}
	return out
}

// invalidHeaderRunes returns the distinct characters of h that are neither
// letters, digits, underscores nor spaces.
func invalidHeaderRunes(h string) string {
	var b strings.Builder
	for _, r := range h {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ' ' {
			continue
		}
		if !strings.ContainsRune(b.String(), r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
