package bne

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Offering is one job offering as the BNE API returns it. The payload
// follows schema.org JobPosting loosely: most fields may arrive as a string,
// a number or a nested object.
type Offering struct {
	Identifier             text         `json:"identifier"`
	Title                  string       `json:"title"`
	Name                   string       `json:"name"`
	Description            string       `json:"description"`
	URL                    string       `json:"url"`
	HiringOrganization     organization `json:"hiringOrganization"`
	JobLocation            place        `json:"jobLocation"`
	JobLocationType        text         `json:"jobLocationType"`
	DatePosted             string       `json:"datePosted"`
	BaseSalary             salary       `json:"baseSalary"`
	WorkHours              text         `json:"workHours"`
	EmploymentType         text         `json:"employmentType"`
	ExperienceRequirements text         `json:"experienceRequirements"`
	EducationRequirements  text         `json:"educationRequirements"`
	TotalJobOpenings       amount       `json:"totalJobOpenings"`
	OccupationalCategory   text         `json:"occupationalCategory"`
}

type organization struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     text   `json:"address"`
}

// place takes a single location object or a list of them (first wins).
type place struct {
	Address text `json:"address"`
}

func (p *place) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	type plain place
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = place{}
		return nil
	case data[0] == '[':
		var list []plain
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*p = place{}
		if len(list) > 0 {
			*p = place(list[0])
		}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = place{Address: text(s)}
		return nil
	default:
		var v plain
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*p = place(v)
		return nil
	}
}

type salary struct {
	Currency string `json:"currency"`
	MinValue amount `json:"minValue"`
	MaxValue amount `json:"maxValue"`
}

func (s *salary) UnmarshalJSON(data []byte) error {
	type plain salary
	var v struct {
		plain
		Value *plain `json:"value"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = salary(v.plain)
	// schema.org nests the range under "value"
	if v.Value != nil {
		if s.MinValue == 0 {
			s.MinValue = v.Value.MinValue
		}
		if s.MaxValue == 0 {
			s.MaxValue = v.Value.MaxValue
		}
		if s.Currency == "" {
			s.Currency = v.Value.Currency
		}
	}
	return nil
}

var groupedDigits = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

// amount is a whole number that may arrive quoted, with decimals or with
// thousands separators ("1.500.000"). Anything else reads as zero.
type amount int64

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if groupedDigits.MatchString(s) {
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = amount(f)
	return nil
}

// text flattens strings, numbers and schema.org objects into one string.
// Objects yield their name, description or credential, a postal address
// joined by commas, or months of experience as years.
type text string

var addressParts = []string{"streetAddress", "addressLocality", "addressRegion", "addressCountry"}

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = text(flatten(obj))
	case '[':
		var items []text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				parts = append(parts, s)
			}
		}
		*t = text(strings.Join(parts, ", "))
	default:
		*t = text(data)
	}
	return nil
}

func flatten(obj map[string]any) string {
	for _, k := range []string{"name", "description", "credentialCategory"} {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if m, ok := obj["monthsOfExperience"].(float64); ok {
		years := int(m) / 12
		if years == 1 {
			return "1 año"
		}
		return fmt.Sprintf("%d años", years)
	}
	var parts []string
	for _, k := range addressParts {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, ", ")
}
