package httpapi

import (
	"time"

	"jobmatch-engine/internal/domain"
)

type CompanyJSON struct {
	Name     string   `json:"name"`
	Verified bool     `json:"verified"`
	Rating   *float64 `json:"rating"`
}

type TagJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Job is the wire form of a posting.
type Job struct {
	ID                     int64       `json:"id"`
	URL                    string      `json:"url"`
	Source                 string      `json:"source"`
	Title                  string      `json:"title"`
	Company                CompanyJSON `json:"company"`
	Location               string      `json:"location"`
	Industry               string      `json:"industry"`
	Subarea                string      `json:"subarea"`
	Modality               string      `json:"modality"`
	MinExperience          string      `json:"min_experience"`
	MinEducation           string      `json:"min_education"`
	ContractType           string      `json:"contract_type"`
	Workday                string      `json:"workday"`
	SalaryText             string      `json:"salary_text"`
	SalaryMax              *int64      `json:"salary_max"`
	Currency               string      `json:"currency"`
	AccessibilityMentioned bool        `json:"accessibility_mentioned"`
	TransportMentioned     bool        `json:"transport_mentioned"`
	DisabilityFriendly     bool        `json:"disability_friendly"`
	MultipleVacancies      bool        `json:"multiple_vacancies"`
	Tags                   []TagJSON   `json:"tags,omitempty"`
	Benefits               []string    `json:"benefits,omitempty"`
	Hash                   string      `json:"hash,omitempty"`
	Description            string      `json:"description,omitempty"`
	PublishedDate          string      `json:"published_date,omitempty"`
	CreatedAt              string      `json:"created_at"`
}

func jobFrom(p domain.JobPosting, withDescription bool) Job {
	j := Job{
		ID:                     p.ID,
		URL:                    p.URL,
		Source:                 p.Source,
		Title:                  p.Title,
		Company:                CompanyJSON{Name: p.Company.Name, Verified: p.Company.Verified, Rating: p.Company.Rating},
		Location:               p.Location,
		Industry:               p.Industry,
		Subarea:                p.Subarea,
		Modality:               p.Modality,
		MinExperience:          p.MinExperience,
		MinEducation:           p.MinEducation,
		ContractType:           p.ContractType,
		Workday:                p.Workday,
		SalaryText:             p.SalaryText,
		SalaryMax:              p.SalaryMax,
		Currency:               p.Currency,
		AccessibilityMentioned: p.AccessibilityMentioned,
		TransportMentioned:     p.TransportMentioned,
		DisabilityFriendly:     p.DisabilityFriendly,
		MultipleVacancies:      p.MultipleVacancies,
		Benefits:               p.Benefits,
		Hash:                   p.Hash,
	}
	for _, t := range p.Tags {
		j.Tags = append(j.Tags, TagJSON{Name: t.Name, Kind: string(t.Kind)})
	}
	if withDescription {
		j.Description = p.Description
	}
	if p.PublishedDate != nil {
		j.PublishedDate = p.PublishedDate.Format("2006-01-02")
	}
	if !p.CreatedAt.IsZero() {
		j.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	return j
}

func jobsFrom(ps []domain.JobPosting, withDescription bool) []Job {
	out := make([]Job, 0, len(ps))
	for _, p := range ps {
		out = append(out, jobFrom(p, withDescription))
	}
	return out
}
