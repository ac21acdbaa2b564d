package query

import (
	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/textutil"
)

// Taxonomy lists the canonical values the parser recognises in a prompt.
// It is built per request and handed to NewParser; nothing here is global.
type Taxonomy struct {
	Industries  []string `yaml:"industries" json:"industries"`
	Areas       []string `yaml:"areas" json:"areas"`
	Modalities  []string `yaml:"modalities" json:"modalities"`
	Seniorities []string `yaml:"seniorities" json:"seniorities"`
	Locations   []string `yaml:"locations" json:"locations"`
	Roles       []string `yaml:"roles" json:"roles"`
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Industries:  []string{"Tecnología", "Educación", "Salud", "Finanzas"},
		Areas:       []string{"Datos", "Desarrollo", "Infraestructura", "Calidad", "Soporte", "Diseño", "Docencia", "Gestión", "Clínica", "Apoyo", "Análisis"},
		Modalities:  []string{"Remoto", "Híbrido", "Presencial"},
		Seniorities: []string{"Junior", "Semi", "Senior"},
		Locations:   []string{"Chile", "LatAm"},
		Roles:       []string{},
	}
}

// NewTaxonomy extends base with the industries and subareas present in
// snap. A nil snap returns base deduplicated.
func NewTaxonomy(base Taxonomy, snap *catalog.Set) Taxonomy {
	t := Taxonomy{
		Industries:  append([]string(nil), base.Industries...),
		Areas:       append([]string(nil), base.Areas...),
		Modalities:  base.Modalities,
		Seniorities: base.Seniorities,
		Locations:   base.Locations,
		Roles:       base.Roles,
	}
	t.Industries = append(t.Industries, snap.Distinct(func(p domain.JobPosting) string { return p.Industry })...)
	t.Areas = append(t.Areas, snap.Distinct(func(p domain.JobPosting) string { return p.Subarea })...)
	return t.Normalized()
}

// Normalized trims every list and drops values that fold to the same key.
func (t Taxonomy) Normalized() Taxonomy {
	return Taxonomy{
		Industries:  textutil.Dedupe(t.Industries),
		Areas:       textutil.Dedupe(t.Areas),
		Modalities:  textutil.Dedupe(t.Modalities),
		Seniorities: textutil.Dedupe(t.Seniorities),
		Locations:   textutil.Dedupe(t.Locations),
		Roles:       textutil.Dedupe(t.Roles),
	}
}
