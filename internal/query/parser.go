package query

import (
	"regexp"
	"strconv"
	"strings"

	"jobmatch-engine/internal/filter"
	"jobmatch-engine/internal/textutil"
)

const (
	USD = "USD"
	CLP = "CLP"
)

var (
	clauseBreak = regexp.MustCompile(`[,;:.!?()]+`)
	amount      = regexp.MustCompile(`(\d[\d.]*)(\s*(?:anos?|years?|mes|meses)\b)?`)
)

// Parsed is the structured form of a prompt.
type Parsed struct {
	Include   filter.Set
	Exclude   filter.Set
	SalaryMin *int64
	Currency  string
}

type rule struct {
	attr        filter.Attribute
	value       filter.Value
	phrases     []string
	includeOnly bool
}

// Parser turns free text into include and exclude sets. A Parser is
// immutable and safe for concurrent use.
type Parser struct {
	rules []rule
}

func NewParser(t Taxonomy) *Parser {
	t = t.Normalized()
	p := &Parser{}

	p.canonical(filter.Modality, t.Modalities)
	p.synonyms(filter.Modality, modalitySynonyms)
	p.canonical(filter.Seniority, t.Seniorities)
	p.synonyms(filter.Seniority, senioritySynonyms)
	p.canonical(filter.Industry, t.Industries)
	p.canonical(filter.Area, t.Areas)
	p.synonyms(filter.Area, areaSynonyms)
	p.canonical(filter.Role, t.Roles)
	p.synonyms(filter.Role, roleSynonyms)
	p.canonical(filter.Location, t.Locations)

	p.rules = append(p.rules,
		rule{attr: filter.Accessibility, value: filter.BoolValue(true), phrases: keys(accessibilityPhrases), includeOnly: true},
		rule{attr: filter.Transport, value: filter.BoolValue(true), phrases: keys(transportPhrases), includeOnly: true},
	)
	return p
}

func (p *Parser) canonical(a filter.Attribute, values []string) {
	for _, v := range values {
		p.rules = append(p.rules, rule{attr: a, value: filter.StringValue(v), phrases: keys([]string{v})})
	}
}

func (p *Parser) synonyms(a filter.Attribute, syns []synonym) {
	for _, s := range syns {
		p.rules = append(p.rules, rule{attr: a, value: filter.StringValue(s.canonical), phrases: keys(s.phrases)})
	}
}

// Parse extracts filters from prompt. Text following "no", "sin" or "ni" up
// to the next conjunction or punctuation is negated: it feeds Exclude and is
// not considered for Include. A salary floor is only reported together with
// a currency.
func (p *Parser) Parse(prompt string) Parsed {
	folded := textutil.Fold(prompt)
	out := Parsed{Currency: currency(folded)}
	if out.Currency != "" {
		out.SalaryMin = salaryFloor(folded)
	}

	kept, negated := split(folded)
	for _, r := range p.rules {
		if matchesAny(kept, r.phrases) {
			out.Include = out.Include.With(r.attr, r.value)
		}
	}
	for _, r := range p.rules {
		if !r.includeOnly && matchesAny(negated, r.phrases) {
			out.Exclude = out.Exclude.With(r.attr, r.value)
		}
	}
	return out
}

// split breaks folded text into word segments, separating negated spans
// from the rest.
func split(folded string) (kept, negated []string) {
	for _, clause := range clauseBreak.Split(folded, -1) {
		var cur []string
		negating := false
		flush := func() {
			if len(cur) == 0 {
				return
			}
			seg := strings.Join(cur, " ")
			if negating {
				negated = append(negated, seg)
			} else {
				kept = append(kept, seg)
			}
			cur = nil
		}
		for _, w := range textutil.Words(clause) {
			switch {
			case negators[w]:
				flush()
				negating = true
			case negating && conjunctions[w]:
				flush()
				negating = false
			default:
				cur = append(cur, w)
			}
		}
		flush()
	}
	return kept, negated
}

func currency(folded string) string {
	text := strings.Join(textutil.Words(folded), " ")
	for _, m := range clpMarkers {
		if textutil.ContainsPhrase(text, m) {
			return CLP
		}
	}
	for _, m := range usdMarkers {
		if textutil.ContainsPhrase(text, m) {
			return USD
		}
	}
	if strings.Contains(folded, "$") {
		return USD
	}
	return ""
}

// salaryFloor returns the first amount in the text that is not a duration.
// Dots are thousands separators.
func salaryFloor(folded string) *int64 {
	for _, m := range amount.FindAllStringSubmatch(folded, -1) {
		if m[2] != "" {
			continue
		}
		digits := strings.ReplaceAll(m[1], ".", "")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}

func matchesAny(segments, phrases []string) bool {
	for _, seg := range segments {
		for _, ph := range phrases {
			if textutil.ContainsPhrase(seg, ph) {
				return true
			}
		}
	}
	return false
}

func keys(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if k := strings.Join(textutil.Words(p), " "); k != "" {
			out = append(out, k)
		}
	}
	return out
}
