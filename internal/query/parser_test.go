package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/filter"
)

func strs(vals ...string) []filter.Value {
	out := make([]filter.Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, filter.StringValue(v))
	}
	return out
}

func TestParse_IncludeExcludeAndSalary(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	got := p.Parse("Busco trabajo remoto junior en datos, no presencial, sueldo 1.500.000 pesos")

	assert.Equal(t, []filter.Attribute{filter.Modality, filter.Seniority, filter.Area}, got.Include.Attributes())
	assert.Equal(t, strs("Remoto"), got.Include.Values(filter.Modality))
	assert.Equal(t, strs("Junior"), got.Include.Values(filter.Seniority))
	assert.Equal(t, strs("Datos"), got.Include.Values(filter.Area))

	assert.Equal(t, []filter.Attribute{filter.Modality}, got.Exclude.Attributes())
	assert.Equal(t, strs("Presencial"), got.Exclude.Values(filter.Modality))

	require.NotNil(t, got.SalaryMin)
	assert.Equal(t, int64(1500000), *got.SalaryMin)
	assert.Equal(t, CLP, got.Currency)
}

func TestParse_Salary(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	tests := []struct {
		name     string
		prompt   string
		floor    *int64
		currency string
	}{
		{"years are not salary", "3 años de experiencia, 2000 usd", ptr(2000), USD},
		{"dollar sign", "desde $1.200", ptr(1200), USD},
		{"pesos win over dollar sign", "$800.000 pesos", ptr(800000), CLP},
		{"no currency drops amount", "sueldo 900000", nil, ""},
		{"currency without amount", "pago en dólares", nil, USD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.prompt)
			assert.Equal(t, tt.floor, got.SalaryMin)
			assert.Equal(t, tt.currency, got.Currency)
		})
	}
}

func TestParse_NegationSpans(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	got := p.Parse("no remoto ni híbrido pero en Chile")

	assert.Equal(t, strs("Remoto", "Híbrido"), got.Exclude.Values(filter.Modality))
	assert.False(t, got.Include.Has(filter.Modality))
	assert.Equal(t, strs("Chile"), got.Include.Values(filter.Location))
}

func TestParse_BooleanAttributes(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	got := p.Parse("empleo inclusivo con transporte")
	assert.Equal(t, []filter.Attribute{filter.Accessibility, filter.Transport}, got.Include.Attributes())
	assert.Equal(t, []filter.Value{filter.BoolValue(true)}, got.Include.Values(filter.Transport))

	got = p.Parse("sin transporte")
	assert.True(t, got.Exclude.Empty())
	assert.True(t, got.Include.Empty())
}

func TestParse_Synonyms(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	got := p.Parse("QA tester con teletrabajo")
	assert.Equal(t, strs("Remoto"), got.Include.Values(filter.Modality))
	assert.Equal(t, strs("Calidad"), got.Include.Values(filter.Area))
	assert.Equal(t, strs("QA Analyst"), got.Include.Values(filter.Role))
}

func TestParse_WordBoundaries(t *testing.T) {
	p := NewParser(DefaultTaxonomy())

	got := p.Parse("operaciones de soporte")
	assert.Equal(t, strs("Soporte"), got.Include.Values(filter.Area))
}

func TestNewTaxonomy_MergesCatalogValues(t *testing.T) {
	snap := catalog.NewSet([]domain.JobPosting{
		{ID: 1, Industry: "Minería", Subarea: "datos"},
		{ID: 2, Industry: "Salud", Subarea: "Geología"},
	})
	base := DefaultTaxonomy()
	base.Locations = append(base.Locations, "Antofagasta")

	tax := NewTaxonomy(base, snap)
	assert.Equal(t, []string{"Tecnología", "Educación", "Salud", "Finanzas", "Minería"}, tax.Industries)
	assert.Contains(t, tax.Areas, "Geología")
	assert.NotContains(t, tax.Areas, "datos")

	got := NewParser(tax).Parse("geología o minería en Antofagasta")
	assert.Equal(t, strs("Minería"), got.Include.Values(filter.Industry))
	assert.Equal(t, strs("Geología"), got.Include.Values(filter.Area))
	assert.Equal(t, strs("Antofagasta"), got.Include.Values(filter.Location))

	assert.Equal(t, base.Industries, NewTaxonomy(base, nil).Industries)
}

func ptr(n int64) *int64 { return &n }
