package csv

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		line      string
		delim     rune
		want      []string
		unclosed  bool
		adjacent  bool
	}{
		{"Plain", "a,b,c", ',', []string{"a", "b", "c"}, false, false},
		{"QuotedDelimiter", `"a,b",c`, ',', []string{"a,b", "c"}, false, false},
		{"EscapedQuote", `"say ""hi""",x`, ',', []string{`say "hi"`, "x"}, false, false},
		{"EmptyQuoted", `a,"",b`, ',', []string{"a", "", "b"}, false, false},
		{"Adjacent", "a,,b", ',', []string{"a", "", "b"}, false, true},
		{"AdjacentAcrossBlank", "a, ,b", ',', []string{"a", " ", "b"}, false, true},
		{"AdjacentAcrossTab", "a;\t;b", ';', []string{"a", "\t", "b"}, false, true},
		{"QuotedBlankNotAdjacent", `a," ",b`, ',', []string{"a", " ", "b"}, false, false},
		{"Unclosed", `a,"b,c`, ',', []string{"a", "b,c"}, true, false},
		{"Semicolon", "x;y", ';', []string{"x", "y"}, false, false},
		{"Tab", "x\ty\tz", '\t', []string{"x", "y", "z"}, false, false},
		{"NoDelimiter", "a,b", None, []string{"a,b"}, false, false},
		{"SpacesKept", " a , b ", ',', []string{" a ", " b "}, false, false},
		{"MidFieldQuotesBalanced", `ab"c"d,e`, ',', []string{"abcd", "e"}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Split(tc.line, tc.delim)
			if strings.Join(got.Fields, "|") != strings.Join(tc.want, "|") || len(got.Fields) != len(tc.want) {
				t.Fatalf("Fields=%q; want %q", got.Fields, tc.want)
			}
			if got.UnclosedQuote != tc.unclosed {
				t.Fatalf("UnclosedQuote=%v; want %v", got.UnclosedQuote, tc.unclosed)
			}
			if got.AdjacentDelims != tc.adjacent {
				t.Fatalf("AdjacentDelims=%v; want %v", got.AdjacentDelims, tc.adjacent)
			}
		})
	}
}

// TestFitRowToWidth validates that rows are padded or truncated to the
// requested width.
func TestFitRowToWidth(t *testing.T) {
	t.Parallel()
	cases := []struct {
		row  []string
		n    int
		want []string
	}{
		{[]string{"a", "b", "c"}, 3, []string{"a", "b", "c"}},
		{[]string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{[]string{"a"}, 3, []string{"a", "", ""}},
	}
	for _, tc := range cases {
		got := FitRowToWidth(tc.row, tc.n)
		if len(got) != len(tc.want) {
			t.Fatalf("len=%d; want %d", len(got), len(tc.want))
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("got[%d]=%q; want %q", i, got[i], tc.want[i])
			}
		}
	}
}
