package quality

import (
	"testing"

	"wlcheck/internal/finding"
	"wlcheck/internal/inference"
	"wlcheck/internal/parser/csv"
	"wlcheck/internal/structure"
)

func grid(t *testing.T, content string) structure.Grid {
	t.Helper()
	return structure.Validate(csv.Lines(content), structure.Options{}).Grid
}

func byCode(fs []finding.Finding, code finding.Code) []finding.Finding {
	var out []finding.Finding
	for _, f := range fs {
		if f.Code == code {
			out = append(out, f)
		}
	}
	return out
}

func TestScan_AllWarnings(t *testing.T) {
	t.Parallel()
	g := grid(t, "1st col,e-mail\n=SUM(A1:A10),a@x.io\n\n+1,a@x.io\n")
	profiles := inference.NewClassifier(nil).Profiles(g)
	fs := Scan(g, profiles, Options{})
	if len(fs) == 0 {
		t.Fatal("expected findings")
	}
	for _, f := range fs {
		if f.Severity != finding.SeverityWarning {
			t.Fatalf("%s has severity %s; quality findings must be warnings", f.Code, f.Severity)
		}
	}
	for _, code := range []finding.Code{
		finding.HeaderStartsWithDigit,
		finding.HeaderInvalidChars,
		finding.InjectionRisk,
		finding.EmptyRow,
		finding.DuplicateValues,
	} {
		if len(byCode(fs, code)) == 0 {
			t.Errorf("missing %s in %v", code, fs)
		}
	}
}

func TestRowFindings_Injection(t *testing.T) {
	t.Parallel()
	g := grid(t, "a,b\n=SUM(A1:A10),ok\n @evil,-3\nplain,x=1\n")
	fs := byCode(RowFindings(g, Options{}), finding.InjectionRisk)
	if len(fs) != 3 {
		t.Fatalf("got %d injection findings; want 3: %v", len(fs), fs)
	}
	first := fs[0]
	if *first.Row != 2 || *first.Column != "a" {
		t.Fatalf("first finding at row %d column %s; want 2/a", *first.Row, *first.Column)
	}
	if *fs[1].Row != 3 || *fs[1].Column != "a" || *fs[2].Column != "b" {
		t.Fatalf("unexpected locations: %v", fs)
	}
}

func TestRowFindings_EmptyRow(t *testing.T) {
	t.Parallel()
	g := grid(t, "a,b\n1,2\n   \n3,4\n")
	fs := RowFindings(g, Options{})
	if len(fs) != 1 || fs[0].Code != finding.EmptyRow || *fs[0].Row != 3 {
		t.Fatalf("findings=%v; want one empty-row at 3", fs)
	}
}

func TestRowFindings_SearchKeyEmpty(t *testing.T) {
	t.Parallel()
	g := grid(t, "upn,dept\na@x.io,IT\n ,HR\n")
	fs := RowFindings(g, Options{SearchKey: "upn"})
	if len(fs) != 1 || fs[0].Code != finding.SearchKeyEmpty || *fs[0].Row != 3 {
		t.Fatalf("findings=%v; want one search-key-empty at 3", fs)
	}
}

func TestRowFindings_DeepScan(t *testing.T) {
	t.Parallel()
	g := grid(t, "q\n1' OR '1'='1\n<script>alert(1)</script>\nhello\n")
	if fs := RowFindings(g, Options{}); len(fs) != 0 {
		t.Fatalf("deep scan disabled but got %v", fs)
	}
	fs := RowFindings(g, Options{DeepInjectionScan: true})
	if len(byCode(fs, finding.SQLInjectionPattern)) == 0 {
		t.Fatalf("missing sql-injection-pattern in %v", fs)
	}
	xss := byCode(fs, finding.XSSPattern)
	if len(xss) == 0 || *xss[0].Row != 3 {
		t.Fatalf("missing xss-pattern on row 3 in %v", fs)
	}
}

func TestDuplicateFindings(t *testing.T) {
	t.Parallel()
	g := grid(t, "email,id,name\na@x.io,1,ann\nA@X.io ,2,ann\nb@x.io,3,ann\n,4,bob\n")
	profiles := inference.NewClassifier(nil).Profiles(g)

	fs := DuplicateFindings(g, profiles, Options{})
	if len(fs) != 1 || *fs[0].Column != "email" {
		t.Fatalf("findings=%v; want only email", fs)
	}
	if got, want := fs[0].Message, `column "email" has 1 duplicate Email values`; got != want {
		t.Fatalf("message=%q; want %q", got, want)
	}

	fs = DuplicateFindings(g, profiles, Options{KeyColumns: []string{"name", "id"}})
	if len(fs) != 2 || *fs[1].Column != "name" {
		t.Fatalf("findings=%v; want email and name", fs)
	}
	if got, want := fs[1].Message, `column "name" has 2 duplicate key values`; got != want {
		t.Fatalf("message=%q; want %q", got, want)
	}
}

func TestCountDuplicateRows(t *testing.T) {
	t.Parallel()
	g := grid(t, "a,b\n1,2\n1,2\n1, 2\n\n\n1,2\n")
	if got := CountDuplicateRows(g); got != 2 {
		t.Fatalf("CountDuplicateRows=%d; want 2", got)
	}
}
