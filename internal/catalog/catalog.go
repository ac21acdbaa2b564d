// Package catalog is the read-only view of job postings that searches run
// against: a snapshot that can be filtered, counted, ordered and sliced.
package catalog

import (
	"context"
	"slices"

	"jobmatch-engine/internal/domain"
)

// Source yields a consistent snapshot of the catalog. Implementations
// return infrastructure errors unchanged; callers do not retry.
type Source interface {
	Snapshot(ctx context.Context) (*Set, error)
}

// Set is an immutable sequence of postings. A nil *Set behaves as empty.
type Set struct {
	items []domain.JobPosting
}

func NewSet(items []domain.JobPosting) *Set {
	return &Set{items: slices.Clone(items)}
}

func (s *Set) Filter(keep func(domain.JobPosting) bool) *Set {
	if s == nil {
		return &Set{}
	}
	out := make([]domain.JobPosting, 0, len(s.items))
	for _, p := range s.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return &Set{items: out}
}

func (s *Set) Exclude(drop func(domain.JobPosting) bool) *Set {
	return s.Filter(func(p domain.JobPosting) bool { return !drop(p) })
}

func (s *Set) Count() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// OrderBy returns a stably sorted copy.
func (s *Set) OrderBy(o Ordering) *Set {
	if s == nil {
		return &Set{}
	}
	out := slices.Clone(s.items)
	slices.SortStableFunc(out, o)
	return &Set{items: out}
}

// Slice returns up to limit postings starting at offset. Out-of-range
// offsets yield an empty slice.
func (s *Set) Slice(offset, limit int) []domain.JobPosting {
	n := s.Count()
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= n {
		return []domain.JobPosting{}
	}
	end := min(offset+limit, n)
	return slices.Clone(s.items[offset:end])
}

func (s *Set) All() []domain.JobPosting {
	if s == nil {
		return []domain.JobPosting{}
	}
	return slices.Clone(s.items)
}

// Distinct returns the non-empty values of field in first-seen order.
func (s *Set) Distinct(field func(domain.JobPosting) string) []string {
	if s == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range s.items {
		v := field(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
