package catalog

import (
	"cmp"
	"strings"

	"jobmatch-engine/internal/domain"
)

// Ordering compares two postings like cmp.Compare.
type Ordering func(a, b domain.JobPosting) int

func ByID(a, b domain.JobPosting) int { return cmp.Compare(a.ID, b.ID) }

func ByIDDesc(a, b domain.JobPosting) int { return cmp.Compare(b.ID, a.ID) }

// ByRecencyTitle puts the newest postings first.
func ByRecencyTitle(a, b domain.JobPosting) int {
	if c := b.Recency().Compare(a.Recency()); c != 0 {
		return c
	}
	return byTitle(a, b)
}

func ByCompanyTitle(a, b domain.JobPosting) int {
	if c := strings.Compare(strings.ToLower(a.Company.Name), strings.ToLower(b.Company.Name)); c != 0 {
		return c
	}
	return byTitle(a, b)
}

func ByTitleRecency(a, b domain.JobPosting) int {
	if c := byTitle(a, b); c != 0 {
		return c
	}
	return b.Recency().Compare(a.Recency())
}

func ByLocationTitle(a, b domain.JobPosting) int {
	if c := strings.Compare(strings.ToLower(a.Location), strings.ToLower(b.Location)); c != 0 {
		return c
	}
	return byTitle(a, b)
}

func byTitle(a, b domain.JobPosting) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}
