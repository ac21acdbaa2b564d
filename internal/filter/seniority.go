package filter

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"jobmatch-engine/internal/textutil"
)

// Seniority is stored by portals as free text ("2 años", "Sin experiencia",
// "Junior"), so a level is expanded into the tokens that text tends to carry.
var seniorityYears = map[string][]int{
	"junior": {0, 1, 2},
	"semi":   {2, 3, 4, 5},
	"senior": {5, 6, 7, 8, 9, 10},
}

var senioritySynonyms = map[string][]string{
	"junior": {"junior", "jr", "entry", "trainee"},
}

var digitRun = regexp.MustCompile(`\d+`)

// seniorityRule is a level expanded into whole year counts and folded words.
// Levels outside the table match on their own text.
type seniorityRule struct {
	years []int
	words []string
}

func newSeniorityRule(level string) seniorityRule {
	key := textutil.Fold(level)
	years, ok := seniorityYears[key]
	if !ok {
		if key == "" {
			return seniorityRule{}
		}
		return seniorityRule{words: []string{key}}
	}
	r := seniorityRule{years: years}
	for _, w := range senioritySynonyms[key] {
		r.words = append(r.words, textutil.Fold(w))
	}
	return r
}

// matches reports whether folded text carries one of the year counts as a
// whole number ("1" does not match "10") or contains one of the words.
func (r seniorityRule) matches(text string) bool {
	for _, run := range digitRun.FindAllString(text, -1) {
		n, err := strconv.Atoi(run)
		if err == nil && slices.Contains(r.years, n) {
			return true
		}
	}
	for _, w := range r.words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
