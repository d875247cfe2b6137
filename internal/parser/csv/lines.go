package csv

import "strings"

// Line is one physical line of input.
type Line struct {
	// Number is the 1-based physical line number.
	Number int
	// Text excludes the line terminator.
	Text string
}

// Blank reports whether the line holds nothing but whitespace.
func (l Line) Blank() bool { return strings.TrimSpace(l.Text) == "" }

// Lines splits decoded text into physical lines. "\r\n" and "\n" both end a
// line. Blank lines at the end of the input are dropped so that a trailing
// newline (or several) never shows up as an empty data row; blank lines in the
// middle are kept because they are reportable.
func Lines(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]Line, 0, len(raw))
	for i, s := range raw {
		out = append(out, Line{Number: i + 1, Text: strings.TrimSuffix(s, "\r")})
	}
	end := len(out)
	for end > 0 && out[end-1].Blank() {
		end--
	}
	return out[:end]
}
