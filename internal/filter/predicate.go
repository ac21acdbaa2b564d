package filter

import (
	"fmt"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/textutil"
)

// Predicate decides whether a posting is kept.
type Predicate func(domain.JobPosting) bool

// Criteria is everything a search filters on.
type Criteria struct {
	Include   Set
	Exclude   Set
	SalaryMin *int64
	Currency  string
}

// Builder compiles Criteria into a Predicate. The zero Builder is usable;
// without a Vocabulary, area matching always falls back to substrings.
type Builder struct {
	Vocabulary Vocabulary
}

// Build returns a predicate that keeps postings matching every include
// clause, none of the exclude clauses, and the salary floor. Values of the
// wrong kind fail with ErrInvalidFilterValue; unknown attributes are ignored.
func (b Builder) Build(c Criteria) (Predicate, error) {
	remote := false
	for _, v := range c.Include.Values(Modality) {
		if s, ok := v.Str(); ok && isRemote(s) {
			remote = true
		}
	}

	var keep, drop []Predicate
	for _, cl := range c.Include.clauses {
		p, ok, err := b.clause(cl.Attr, cl.Values, remote)
		if err != nil {
			return nil, err
		}
		if ok {
			keep = append(keep, p)
		}
	}
	for _, cl := range c.Exclude.clauses {
		p, ok, err := b.clause(cl.Attr, cl.Values, false)
		if err != nil {
			return nil, err
		}
		if ok {
			drop = append(drop, p)
		}
	}
	salary := salaryPredicate(c.SalaryMin, c.Currency)

	return func(p domain.JobPosting) bool {
		if salary != nil && !salary(p) {
			return false
		}
		for _, k := range keep {
			if !k(p) {
				return false
			}
		}
		for _, d := range drop {
			if d(p) {
				return false
			}
		}
		return true
	}, nil
}

// Clause compiles a single attribute. ok is false when the attribute does
// not constrain anything (unknown, or no values).
func (b Builder) Clause(a Attribute, values []Value) (p Predicate, ok bool, err error) {
	return b.clause(a, values, false)
}

// Carries reports whether p still holds one of the originally requested
// values of a critical attribute. Area requires an exact (folded) match.
func (b Builder) Carries(a Attribute, values []Value, p domain.JobPosting) bool {
	switch a {
	case Area:
		sub := textutil.Fold(p.Subarea)
		for _, v := range values {
			if s, ok := v.Str(); ok && sub != "" && textutil.Fold(s) == sub {
				return true
			}
		}
		return false
	default:
		pred, ok, err := b.clause(a, values, false)
		return err == nil && ok && pred(p)
	}
}

func (b Builder) clause(a Attribute, values []Value, remote bool) (Predicate, bool, error) {
	if !a.Known() || len(values) == 0 {
		return nil, false, nil
	}

	if a.Boolean() {
		want := make([]bool, 0, len(values))
		for _, v := range values {
			f, ok := v.Bool()
			if !ok {
				return nil, false, fmt.Errorf("%w: %s expects bool, got %s %q", ErrInvalidFilterValue, a, v.Kind(), v.String())
			}
			want = append(want, f)
		}
		field := func(p domain.JobPosting) bool { return p.AccessibilityMentioned }
		if a == Transport {
			field = func(p domain.JobPosting) bool { return p.TransportMentioned }
		}
		return func(p domain.JobPosting) bool {
			got := field(p)
			for _, w := range want {
				if got == w {
					return true
				}
			}
			return false
		}, true, nil
	}

	strs := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.Str()
		if !ok {
			return nil, false, fmt.Errorf("%w: %s expects string, got %s", ErrInvalidFilterValue, a, v.Kind())
		}
		if s = textutil.Fold(s); s != "" {
			strs = append(strs, s)
		}
	}
	if len(strs) == 0 {
		return nil, false, nil
	}

	var match func(domain.JobPosting, string) bool
	switch a {
	case Role:
		match = func(p domain.JobPosting, v string) bool {
			return strings.Contains(textutil.Fold(p.Title), v)
		}
	case Seniority:
		match = matchSeniority
	case Industry:
		match = func(p domain.JobPosting, v string) bool {
			f := textutil.Fold(p.Industry)
			return f == v || strings.Contains(f, v)
		}
	case Area:
		match = b.matchArea
	case Modality:
		match = func(p domain.JobPosting, v string) bool {
			return textutil.Fold(p.Modality) == v
		}
	case Location:
		match = func(p domain.JobPosting, v string) bool {
			return matchLocation(p, v, remote)
		}
	default:
		return nil, false, nil
	}

	return func(p domain.JobPosting) bool {
		for _, v := range strs {
			if match(p, v) {
				return true
			}
		}
		return false
	}, true, nil
}

func matchSeniority(p domain.JobPosting, level string) bool {
	text := textutil.Fold(p.MinExperience)
	if text == "" {
		return false
	}
	return newSeniorityRule(level).matches(text)
}

// matchArea compares against the fine subarea field. A value that exists
// verbatim in the catalog matches only exactly, so a broad value never
// swallows a more specific one.
func (b Builder) matchArea(p domain.JobPosting, v string) bool {
	sub := textutil.Fold(p.Subarea)
	if sub == "" {
		return false
	}
	if b.Vocabulary.HasSubarea(v) {
		return sub == v
	}
	return strings.Contains(sub, v)
}

func matchLocation(p domain.JobPosting, v string, remote bool) bool {
	if invalidLocation(p.Location) {
		return remote
	}
	loc := textutil.Fold(p.Location)
	kws := locationKeywords(v)
	if len(kws) == 0 {
		return false
	}
	for _, kw := range kws {
		if !strings.Contains(loc, kw) {
			return false
		}
	}
	return true
}

// salaryPredicate is best-effort: most postings carry salary only as text,
// so an unknown amount or currency never disqualifies a posting.
func salaryPredicate(floor *int64, currency string) Predicate {
	if floor == nil || strings.TrimSpace(currency) == "" {
		return nil
	}
	return func(p domain.JobPosting) bool {
		if p.Currency != "" && !strings.EqualFold(p.Currency, currency) {
			return false
		}
		if p.SalaryMax != nil && *p.SalaryMax < *floor {
			return false
		}
		return true
	}
}
