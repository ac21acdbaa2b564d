package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
)

func str(vals ...string) []Value {
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, StringValue(v))
	}
	return out
}

func build(t *testing.T, b Builder, c Criteria) Predicate {
	t.Helper()
	p, err := b.Build(c)
	require.NoError(t, err)
	return p
}

func TestBuild_Seniority(t *testing.T) {
	junior := build(t, Builder{}, Criteria{Include: NewSet(Clause{Seniority, str("Junior")})})
	semi := build(t, Builder{}, Criteria{Include: NewSet(Clause{Seniority, str("Semi")})})
	senior := build(t, Builder{}, Criteria{Include: NewSet(Clause{Seniority, str("Senior")})})

	tests := []struct {
		exp    string
		junior bool
		semi   bool
		senior bool
	}{
		{"2 años", true, true, false},
		{"1 año de experiencia", true, false, false},
		{"Trainee", true, false, false},
		{"Jr. con ganas de aprender", true, false, false},
		{"4 años", false, true, false},
		{"6 años", false, false, true},
		{"10 años", false, false, true},
		{"12 años", false, false, false},
		{"Más de 20 años", false, false, false},
		{"", false, false, false},
		{"Sin experiencia", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.exp, func(t *testing.T) {
			p := domain.JobPosting{MinExperience: tt.exp}
			assert.Equal(t, tt.junior, junior(p), "junior")
			assert.Equal(t, tt.semi, semi(p), "semi")
			assert.Equal(t, tt.senior, senior(p), "senior")
		})
	}
}

func TestBuild_ModalityIsExact(t *testing.T) {
	p := build(t, Builder{}, Criteria{Include: NewSet(Clause{Modality, str("Remoto")})})

	assert.True(t, p(domain.JobPosting{Modality: "remoto"}))
	assert.True(t, p(domain.JobPosting{Modality: "REMOTO"}))
	assert.False(t, p(domain.JobPosting{Modality: "Semi-Remoto"}))

	h := build(t, Builder{}, Criteria{Include: NewSet(Clause{Modality, str("Hibrido")})})
	assert.True(t, h(domain.JobPosting{Modality: "Híbrido"}))
}

func TestBuild_RoleSubstring(t *testing.T) {
	p := build(t, Builder{}, Criteria{Include: NewSet(Clause{Role, str("data analyst", "backend")})})

	assert.True(t, p(domain.JobPosting{Title: "Senior Data Analyst - Retail"}))
	assert.True(t, p(domain.JobPosting{Title: "Desarrollador Backend Go"}))
	assert.False(t, p(domain.JobPosting{Title: "Data Engineer"}))
}

func TestBuild_IndustryMatchesCoarseField(t *testing.T) {
	p := build(t, Builder{}, Criteria{Include: NewSet(Clause{Industry, str("Tecnología")})})

	assert.True(t, p(domain.JobPosting{Industry: "Tecnologia"}))
	assert.True(t, p(domain.JobPosting{Industry: "Tecnología e Informática"}))
	assert.False(t, p(domain.JobPosting{Subarea: "Tecnología"}))
}

func TestBuild_AreaPrefersExact(t *testing.T) {
	vocab := NewVocabulary([]string{"Desarrollo", "Desarrollo/Datos", "Análisis"})
	b := Builder{Vocabulary: vocab}

	t.Run("value present in catalog matches exactly", func(t *testing.T) {
		p := build(t, b, Criteria{Include: NewSet(Clause{Area, str("Desarrollo")})})
		assert.True(t, p(domain.JobPosting{Subarea: "desarrollo"}))
		assert.False(t, p(domain.JobPosting{Subarea: "Desarrollo/Datos"}))
	})

	t.Run("value absent from catalog falls back to substring", func(t *testing.T) {
		p := build(t, b, Criteria{Include: NewSet(Clause{Area, str("Datos")})})
		assert.True(t, p(domain.JobPosting{Subarea: "Desarrollo/Datos"}))
		assert.False(t, p(domain.JobPosting{Subarea: "Análisis"}))
	})

	t.Run("area never looks at industry", func(t *testing.T) {
		p := build(t, b, Criteria{Include: NewSet(Clause{Area, str("Datos")})})
		assert.False(t, p(domain.JobPosting{Industry: "Datos"}))
	})
}

func TestBuild_LocationIsConjunctive(t *testing.T) {
	p := build(t, Builder{}, Criteria{Include: NewSet(Clause{Location, str("Santiago, Región Metropolitana")})})

	assert.True(t, p(domain.JobPosting{Location: "Santiago, Region Metropolitana de Santiago"}))
	assert.False(t, p(domain.JobPosting{Location: "Santiago, RM"}))
	assert.False(t, p(domain.JobPosting{Location: "Valparaíso, Región de Valparaíso"}))

	short := build(t, Builder{}, Criteria{Include: NewSet(Clause{Location, str("Santiago")})})
	assert.True(t, short(domain.JobPosting{Location: "Santiago, RM"}))
}

func TestBuild_InvalidLocation(t *testing.T) {
	banner := domain.JobPosting{Location: "Utilizamos cookies para mejorar tu experiencia", Modality: "Remoto"}

	onsite := build(t, Builder{}, Criteria{Include: NewSet(Clause{Location, str("Santiago")})})
	assert.False(t, onsite(banner))

	remote := build(t, Builder{}, Criteria{Include: NewSet(
		Clause{Location, str("Santiago")},
		Clause{Modality, str("Remoto")},
	)})
	assert.True(t, remote(banner))
	assert.True(t, remote(domain.JobPosting{Modality: "Remoto"}), "empty location is irrelevant for remote roles")
}

func TestBuild_BooleanAttributes(t *testing.T) {
	p := build(t, Builder{}, Criteria{Include: NewSet(
		Clause{Accessibility, []Value{BoolValue(true)}},
		Clause{Transport, []Value{BoolValue(false)}},
	)})

	assert.True(t, p(domain.JobPosting{AccessibilityMentioned: true}))
	assert.False(t, p(domain.JobPosting{AccessibilityMentioned: true, TransportMentioned: true}))
	assert.False(t, p(domain.JobPosting{}))
}

func TestBuild_Exclude(t *testing.T) {
	p := build(t, Builder{}, Criteria{
		Include: NewSet(Clause{Industry, str("Tecnología")}),
		Exclude: NewSet(Clause{Modality, str("Presencial")}),
	})

	assert.True(t, p(domain.JobPosting{Industry: "Tecnología", Modality: "Remoto"}))
	assert.False(t, p(domain.JobPosting{Industry: "Tecnología", Modality: "Presencial"}))
}

func TestBuild_ExcludeWinsOverInclude(t *testing.T) {
	p := build(t, Builder{}, Criteria{
		Include: NewSet(Clause{Modality, str("Remoto")}),
		Exclude: NewSet(Clause{Modality, str("Remoto")}),
	})
	assert.False(t, p(domain.JobPosting{Modality: "Remoto"}))
}

func TestBuild_UnknownAttributeIgnored(t *testing.T) {
	p := build(t, Builder{}, Criteria{
		Include: NewSet(Clause{Attribute("benefits"), str("gimnasio")}),
		Exclude: NewSet(Clause{Attribute("benefits"), []Value{BoolValue(true)}}),
	})
	assert.True(t, p(domain.JobPosting{}))
}

func TestBuild_InvalidValues(t *testing.T) {
	_, err := Builder{}.Build(Criteria{Include: NewSet(Clause{Accessibility, str("si")})})
	assert.ErrorIs(t, err, ErrInvalidFilterValue)

	_, err = Builder{}.Build(Criteria{Exclude: NewSet(Clause{Role, []Value{BoolValue(true)}})})
	assert.ErrorIs(t, err, ErrInvalidFilterValue)
}

func TestBuild_Salary(t *testing.T) {
	floor := int64(1_000_000)
	p := build(t, Builder{}, Criteria{SalaryMin: &floor, Currency: "CLP"})

	high, low := int64(1_200_000), int64(800_000)
	assert.True(t, p(domain.JobPosting{SalaryMax: &high, Currency: "CLP"}))
	assert.False(t, p(domain.JobPosting{SalaryMax: &low, Currency: "CLP"}))
	assert.False(t, p(domain.JobPosting{SalaryMax: &high, Currency: "USD"}))
	assert.True(t, p(domain.JobPosting{SalaryText: "A convenir"}), "unknown salary does not disqualify")

	noCurrency := build(t, Builder{}, Criteria{SalaryMin: &floor})
	assert.True(t, noCurrency(domain.JobPosting{SalaryMax: &low, Currency: "CLP"}))
}

func TestBuilder_Carries(t *testing.T) {
	b := Builder{}
	assert.True(t, b.Carries(Area, str("Datos"), domain.JobPosting{Subarea: "datos"}))
	assert.False(t, b.Carries(Area, str("Datos"), domain.JobPosting{Subarea: "Desarrollo/Datos"}))
	assert.True(t, b.Carries(Industry, str("Salud"), domain.JobPosting{Industry: "Salud y Farmacia"}))
	assert.False(t, b.Carries(Industry, str("Salud"), domain.JobPosting{Industry: "Tecnología"}))
}
