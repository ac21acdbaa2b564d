package relax

import (
	"slices"

	"jobmatch-engine/internal/filter"
)

// Side says which half of the criteria a candidate is removed from.
type Side string

const (
	SideInclude Side = "include"
	SideExclude Side = "exclude"
)

// Candidate is one possible relaxation.
type Candidate struct {
	Side      Side             `json:"side"`
	Attribute filter.Attribute `json:"attribute"`
}

// Order lists every relaxation candidate: exclude attributes then include
// attributes, each in insertion order, stably sorted by ascending priority.
func Order(include, exclude filter.Set) []Candidate {
	out := make([]Candidate, 0, include.Len()+exclude.Len())
	for _, a := range exclude.Attributes() {
		out = append(out, Candidate{Side: SideExclude, Attribute: a})
	}
	for _, a := range include.Attributes() {
		out = append(out, Candidate{Side: SideInclude, Attribute: a})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return a.Attribute.Priority() - b.Attribute.Priority()
	})
	return out
}

// hasNonCritical reports whether a known, non-critical attribute is still
// active on either side.
func hasNonCritical(sets ...filter.Set) bool {
	for _, s := range sets {
		for _, a := range s.Attributes() {
			if a.Known() && !a.Critical() {
				return true
			}
		}
	}
	return false
}
