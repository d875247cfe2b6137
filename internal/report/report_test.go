package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlcheck/internal/finding"
	"wlcheck/internal/inference"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/structure"
)

func TestVerdictOf(t *testing.T) {
	t.Parallel()
	warn := finding.Warnf(finding.EmptyRow, "w")
	errf := finding.Errorf(finding.EmptyFile, "e")
	cases := []struct {
		fs   []finding.Finding
		want Verdict
	}{
		{nil, Clean},
		{[]finding.Finding{warn}, Warned},
		{[]finding.Finding{warn, errf}, Blocked},
		{[]finding.Finding{errf}, Blocked},
	}
	for _, tc := range cases {
		if got := VerdictOf(tc.fs); got != tc.want {
			t.Fatalf("VerdictOf(%v)=%s; want %s", tc.fs, got, tc.want)
		}
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	g := structure.Grid{
		Delimiter: ';',
		Header:    []string{"a", "b"},
		Rows: []structure.Row{
			{Number: 2, Cells: []string{"1", ""}},
			{Number: 3, Cells: []string{"", ""}, Blank: true},
		},
	}
	r := Build(Input{
		Watchlist: "vip",
		Grid:      g,
		Findings: []finding.Finding{
			finding.Warnf(finding.EmptyRow, "row is empty").AtRow(3),
			finding.Errorf(finding.ColumnCountMismatch, "x").AtRow(2),
		},
		DuplicateRows: 1,
	})
	assert.Equal(t, Blocked, r.Verdict)
	assert.Equal(t, "semicolon", r.Delimiter)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, 2, r.Statistics.TotalRows)
	assert.Equal(t, 2, r.Statistics.TotalColumns)
	assert.Equal(t, 3, r.Statistics.EmptyFields)
	assert.Equal(t, 1, r.Statistics.DuplicateRows)
	assert.NotNil(t, r.Statistics.Columns)
	assert.NotNil(t, r.SchemaDiff.Added)
	assert.NotNil(t, r.SchemaDiff.Removed)
	assert.Empty(t, r.RunID)
	assert.Equal(t, finding.ColumnCountMismatch, r.Findings()[0].Code)
}

func TestRender_MatchesSchema(t *testing.T) {
	t.Parallel()
	r := Build(Input{
		Watchlist: "vip",
		Grid:      structure.Grid{Delimiter: ',', Header: []string{"email"}},
		Findings: []finding.Finding{
			finding.Warnf(finding.InjectionRisk, "value begins with \"=\"").AtRow(2).InColumn("email"),
			finding.Warnf(finding.DuplicateValues, "dup").InColumn("email"),
		},
		Profiles: []inference.ColumnProfile{{
			Name: "email", TypeCounts: map[inference.SemanticType]int{inference.Email: 3},
			NonEmpty: 3, DominantType: inference.Email, ConsistencyPercent: 100,
		}},
		Diff: schemadiff.Decide([]string{"email"}, []string{"email", "dept"}),
	})
	r.RunID = "6f1c1f0e-8a43-4d55-9c69-1f3f2d8b1a00"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	require.NoError(t, CheckJSON(buf.Bytes()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Warned", decoded["verdict"])
	warnings := decoded["warnings"].([]any)
	dup := warnings[1].(map[string]any)
	assert.Nil(t, dup["row"], "row must serialize as null when absent")
	diff := decoded["schemaDiff"].(map[string]any)
	assert.Equal(t, true, diff["requiresRecreate"])
	assert.Equal(t, []any{"dept"}, diff["added"])
}

func TestCheckJSON_Rejects(t *testing.T) {
	t.Parallel()
	require.Error(t, CheckJSON([]byte(`{"verdict":"Maybe"}`)))
}
