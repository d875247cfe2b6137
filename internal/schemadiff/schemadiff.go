// Package schemadiff decides whether a deployed watchlist can be updated in
// place or must be deleted and recreated because its column set changed.
package schemadiff

import "strings"

// Result is the outcome of comparing a deployed column set with a new one.
//
// Added and Removed are never nil so that they serialize as [] rather than
// null. RequiresRecreate is true iff either is non-empty, except on a first
// deployment where nothing exists to recreate.
type Result struct {
	Added            []string `json:"added"`
	Removed          []string `json:"removed"`
	RequiresRecreate bool     `json:"requiresRecreate"`

	// FirstDeployment is set when no existing columns were supplied.
	FirstDeployment bool `json:"firstDeployment"`
	// Reordered is set when both sides hold the same names in a different
	// order. It is informational and never forces a recreate.
	Reordered bool `json:"reordered"`
}

// Empty is the diff carried by runs that never reached a header.
func Empty() Result {
	return Result{Added: []string{}, Removed: []string{}}
}

// Decide compares existing (the deployed schema, possibly empty) with next
// (the new header). Names are trimmed and compared exactly; duplicates keep
// their first occurrence. Position is ignored: a pure permutation is not a
// schema change.
func Decide(existing, next []string) Result {
	ex := normalize(existing)
	nw := normalize(next)

	res := Empty()
	if len(ex) == 0 {
		res.FirstDeployment = true
		return res
	}

	exSet := toSet(ex)
	nwSet := toSet(nw)
	for _, c := range nw {
		if _, ok := exSet[c]; !ok {
			res.Added = append(res.Added, c)
		}
	}
	for _, c := range ex {
		if _, ok := nwSet[c]; !ok {
			res.Removed = append(res.Removed, c)
		}
	}
	res.RequiresRecreate = len(res.Added) > 0 || len(res.Removed) > 0
	if !res.RequiresRecreate {
		for i := range ex {
			if ex[i] != nw[i] {
				res.Reordered = true
				break
			}
		}
	}
	return res
}

// ParseList splits a comma-separated column list as accepted on command
// lines and query strings. Blank entries are dropped.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalize(cols []string) []string {
	out := make([]string, 0, len(cols))
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func toSet(cols []string) map[string]struct{} {
	m := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		m[c] = struct{}{}
	}
	return m
}
