package quality

import (
	"strings"
	"testing"

	"wlcheck/internal/finding"
)

func TestHeaderFindings(t *testing.T) {
	t.Parallel()
	cases := []struct {
		header string
		want   []finding.Code
	}{
		{"UserPrincipalName", nil},
		{"first name", nil},
		{"snake_case_1", nil},
		{"Jméno", nil},
		{"e-mail", []finding.Code{finding.HeaderInvalidChars}},
		{"2fa", []finding.Code{finding.HeaderStartsWithDigit}},
		{"1st (primary)", []finding.Code{finding.HeaderInvalidChars, finding.HeaderStartsWithDigit}},
		{strings.Repeat("x", 65), []finding.Code{finding.HeaderTooLong}},
		{strings.Repeat("x", 64), nil},
		{"  ", []finding.Code{finding.HeaderEmpty}},
	}
	for _, tc := range cases {
		got := HeaderFindings([]string{tc.header}, 0)
		if len(got) != len(tc.want) {
			t.Fatalf("HeaderFindings(%q)=%v; want %v", tc.header, got, tc.want)
		}
		for i := range tc.want {
			if got[i].Code != tc.want[i] {
				t.Fatalf("HeaderFindings(%q)[%d]=%s; want %s", tc.header, i, got[i].Code, tc.want[i])
			}
			if *got[i].Row != 1 {
				t.Fatalf("header finding row=%d; want 1", *got[i].Row)
			}
		}
	}
}

func TestHeaderFindings_CustomLimit(t *testing.T) {
	t.Parallel()
	if got := HeaderFindings([]string{"abcdef"}, 5); len(got) != 1 || got[0].Code != finding.HeaderTooLong {
		t.Fatalf("got %v; want header-too-long", got)
	}
}

func TestSuggestName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"E-Mail Address": "e_mail_address",
		"Jméno":          "jmeno",
		"1st (primary)":  "col_1st_primary",
		"  __  ":         "col",
		"dept/team":      "dept_team",
	}
	for in, want := range cases {
		if got := SuggestName(in); got != want {
			t.Errorf("SuggestName(%q)=%q; want %q", in, got, want)
		}
	}
}
