package inference

import (
	"math"
	"strings"

	"wlcheck/internal/finding"
	"wlcheck/internal/structure"
)

// ColumnProfile summarizes the values of one header column.
type ColumnProfile struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	// TypeCounts maps each observed type to its number of values.
	TypeCounts map[SemanticType]int `json:"typeCounts"`
	// NonEmpty is the number of values that are not blank after trimming.
	NonEmpty           int          `json:"nonEmpty"`
	DominantType       SemanticType `json:"dominantType"`
	ConsistencyPercent int          `json:"consistencyPercent"`
}

// Uniform reports whether every non-empty value has the dominant type.
func (p ColumnProfile) Uniform() bool { return p.ConsistencyPercent == 100 }

// Profile classifies the values of one column.
//
// Empty values are skipped. A bare 0 or 1 counts as Number when the other
// values of the column are numeric-dominated (Number plus Decimal is
// positive and at least the count of every other type); otherwise it counts
// as Boolean.
//
// ConsistencyPercent is the dominant count over NonEmpty, rounded. A column
// that is not uniform never reports 100. A column with no values is String
// at 100.
func (c *Classifier) Profile(name string, index int, values []string) ColumnProfile {
	p := ColumnProfile{Name: name, Index: index, TypeCounts: map[SemanticType]int{}}
	binary := 0
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		p.NonEmpty++
		if isBinary(v) {
			binary++
			continue
		}
		p.TypeCounts[c.Classify(v)]++
	}
	if binary > 0 {
		if numericDominated(p.TypeCounts) {
			p.TypeCounts[Number] += binary
		} else {
			p.TypeCounts[Boolean] += binary
		}
	}

	if p.NonEmpty == 0 {
		p.DominantType = String
		p.ConsistencyPercent = 100
		return p
	}

	best, bestN := String, -1
	for t, n := range p.TypeCounts {
		if n > bestN || (n == bestN && rank(t) < rank(best)) {
			best, bestN = t, n
		}
	}
	p.DominantType = best
	pct := int(math.Round(float64(bestN) / float64(p.NonEmpty) * 100))
	if len(p.TypeCounts) > 1 && pct > 99 {
		pct = 99
	}
	p.ConsistencyPercent = pct
	return p
}

func numericDominated(counts map[SemanticType]int) bool {
	numeric := counts[Number] + counts[Decimal]
	if numeric == 0 {
		return false
	}
	for t, n := range counts {
		if t != Number && t != Decimal && n > numeric {
			return false
		}
	}
	return true
}

// Profiles builds one profile per header column of g, in header order.
func (c *Classifier) Profiles(g structure.Grid) []ColumnProfile {
	out := make([]ColumnProfile, len(g.Header))
	for i, name := range g.Header {
		out[i] = c.Profile(name, i, g.Column(i))
	}
	return out
}

// MixedTypeFindings warns about every column whose values do not share one
// type.
func MixedTypeFindings(profiles []ColumnProfile) []finding.Finding {
	var out []finding.Finding
	for _, p := range profiles {
		if p.Uniform() {
			continue
		}
		out = append(out, finding.Warnf(finding.MixedDataTypes,
			"column %q is %d%% %s across %d non-empty values",
			p.Name, p.ConsistencyPercent, p.DominantType, p.NonEmpty).InColumn(p.Name))
	}
	return out
}
