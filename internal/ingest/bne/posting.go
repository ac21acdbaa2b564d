package bne

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/ingest"
	"jobmatch-engine/internal/textutil"
)

const (
	SourceName = "Servicio Nacional de Empleo (BNE)"

	defaultCurrency = "CLP"
	unknownCompany  = "Empresa no especificada"
)

var (
	titlePrefix = regexp.MustCompile(`^\[\d+[-\w]*\]\s*`)

	dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006/01/02", "2006-01-02"}

	accessibilityKeywords = []string{
		"accesibilidad", "discapacidad", "silla de ruedas", "rampa", "ascensor",
		"incluyente", "inclusivo", "inclusiva", "bano accesible",
	}
	transportKeywords = []string{
		"transporte", "bus", "buses", "metro", "movilizacion", "terminal", "transantiago",
	}
)

// Posting converts o into a catalog posting; ok is false when the offering
// has no URL. Area and subarea come from cls.
func (o Offering) Posting(cls Classifier) (domain.JobPosting, bool) {
	url := strings.TrimSpace(o.URL)
	if url == "" {
		return domain.JobPosting{}, false
	}
	id := strings.TrimSpace(string(o.Identifier))

	title := o.Title
	if strings.TrimSpace(title) == "" {
		title = o.Name
	}
	title = strings.TrimSpace(title)
	if id != "" {
		title = strings.TrimSpace(strings.TrimPrefix(title, "["+id+"]"))
	}
	title = titlePrefix.ReplaceAllString(title, "")

	company := textutil.CleanText(o.HiringOrganization.Name)
	if company == "" {
		company = textutil.CleanText(o.HiringOrganization.Description)
	}
	if company == "" {
		company = unknownCompany
	}

	location := textutil.CleanText(string(o.JobLocation.Address))
	if location == "" {
		location = textutil.CleanText(string(o.HiringOrganization.Address))
	}

	description := ingest.StripHTML(o.Description)

	p := domain.JobPosting{
		URL:           url,
		Source:        SourceName,
		SourceJobID:   id,
		Title:         textutil.CleanText(title),
		Company:       domain.Company{Name: company},
		Location:      location,
		ContractType:  textutil.CleanText(string(o.EmploymentType)),
		Workday:       normalizeWorkday(string(o.WorkHours)),
		MinExperience: textutil.CleanText(string(o.ExperienceRequirements)),
		MinEducation:  textutil.CleanText(string(o.EducationRequirements)),
		Description:   description,
		// absent means a single opening
		MultipleVacancies: o.TotalJobOpenings > 1,
	}
	if p.Title == "" {
		p.Title = "(sin título)"
	}
	if strings.EqualFold(strings.TrimSpace(string(o.JobLocationType)), "TELECOMMUTE") {
		p.Modality = "Remoto"
	}
	if t, ok := parseDate(o.DatePosted); ok {
		p.PublishedDate = &t
	}

	p.SalaryText, p.SalaryMax, p.Currency = o.BaseSalary.describe()

	folded := strings.Join(textutil.Words(description), " ")
	for _, k := range accessibilityKeywords {
		if textutil.ContainsPhrase(folded, k) {
			p.AccessibilityMentioned = true
			p.Tags = append(p.Tags, domain.Tag{Name: k, Kind: domain.TagAccessibility})
		}
	}
	for _, k := range transportKeywords {
		if textutil.ContainsPhrase(folded, k) {
			p.TransportMentioned = true
			p.Tags = append(p.Tags, domain.Tag{Name: k, Kind: domain.TagTransport})
		}
	}

	c := cls.Classify(p.Title, description, string(o.OccupationalCategory))
	p.Industry, p.Subarea = c.Industry, c.Subarea
	if p.Modality == "" {
		p.Modality = c.Modality
	}
	return p, true
}

// describe renders the range the way Chilean portals print it, e.g.
// "800.000 - 1.000.000 CLP", and returns the upper bound.
func (s salary) describe() (label string, upper *int64, currency string) {
	lo, hi := int64(s.MinValue), int64(s.MaxValue)
	if lo <= 0 && hi <= 0 {
		return "", nil, ""
	}
	currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	switch {
	case lo > 0 && hi > 0 && lo == hi:
		label = fmt.Sprintf("%s %s", thousands(lo), currency)
	case lo > 0 && hi > 0:
		label = fmt.Sprintf("%s - %s %s", thousands(lo), thousands(hi), currency)
	case lo > 0:
		label = fmt.Sprintf("Desde %s %s", thousands(lo), currency)
	default:
		label = fmt.Sprintf("Hasta %s %s", thousands(hi), currency)
	}

	top := max(lo, hi)
	return label, &top, currency
}

// thousands formats n with dots as group separators.
func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func normalizeWorkday(s string) string {
	s = textutil.CleanText(s)
	f := textutil.Fold(s)
	switch {
	case strings.Contains(f, "completa") || strings.Contains(f, "full"):
		return "Jornada Completa"
	case strings.Contains(f, "parcial") || strings.Contains(f, "part"):
		return "Part-time"
	default:
		return s
	}
}

// parseDate keeps only the calendar date.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
