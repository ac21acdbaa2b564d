package domain

import "time"

// JobPosting is one catalog entry. Salary is kept as the portal's free text;
// SalaryMax is only set when ingestion could parse a number out of it.
type JobPosting struct {
	ID          int64
	URL         string
	Source      string
	SourceJobID string
	Hash        string // portal-provided content hash, empty when absent

	Title    string
	Company  Company
	Location string // free text, e.g. "Santiago, Región Metropolitana"

	Industry      string // coarse classification ("area" column)
	Subarea       string // fine functional area
	Modality      string // Remoto/Híbrido/Presencial
	MinExperience string // free text, e.g. "2 años"
	MinEducation  string
	ContractType  string
	Workday       string

	SalaryText string
	SalaryMax  *int64
	Currency   string

	AccessibilityMentioned bool
	TransportMentioned     bool
	DisabilityFriendly     bool
	MultipleVacancies      bool

	Tags     []Tag
	Benefits []string

	Description   string
	PublishedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Recency is the timestamp used for "newest first" orderings.
func (p JobPosting) Recency() time.Time {
	if p.PublishedDate != nil {
		return *p.PublishedDate
	}
	return p.CreatedAt
}

type TagKind string

const (
	TagAccessibility TagKind = "accessibility"
	TagTransport     TagKind = "transport"
)

// Tag is a keyword the portal attached to a posting, e.g. "rampa" or "metro".
type Tag struct {
	Name string
	Kind TagKind
}
