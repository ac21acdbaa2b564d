package relax

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/filter"
)

func str(vals ...string) []filter.Value {
	out := make([]filter.Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, filter.StringValue(v))
	}
	return out
}

func newEngine(t *testing.T, postings []domain.JobPosting, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	e, err := New(catalog.NewMemory(postings...), opts...)
	require.NoError(t, err)
	return e
}

func ids(ps []domain.JobPosting) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func kinds(steps []Step) []StepKind {
	out := make([]StepKind, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Kind)
	}
	return out
}

func techCatalog() []domain.JobPosting {
	var ps []domain.JobPosting
	for i := 1; i <= 5; i++ {
		ps = append(ps, domain.JobPosting{ID: int64(i), Title: "Developer", Industry: "Tecnología", Subarea: "Desarrollo"})
	}
	return ps
}

func TestNew_NilSource(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestSearch_RelaxedIndustryWithoutRelevantResults(t *testing.T) {
	e := newEngine(t, techCatalog())

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(filter.Clause{Attr: filter.Industry, Values: str("Salud")}),
		TopN:    3,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Results)
	assert.False(t, res.Metadata.HasRelevantResults)
	assert.Equal(t, []filter.Attribute{filter.Industry}, res.Metadata.RelaxedFilters)
	assert.Equal(t, []StepKind{StepApply, StepRelax, StepApply, StepNoResults}, kinds(res.Trace))
	assert.Equal(t, 0, res.Trace[0].Results)
	assert.Equal(t, 5, res.Trace[2].Results)
	assert.Contains(t, res.Trace[2].Rejected, "industry")
}

func TestSearch_RelaxedAreaWithoutRelevantResults(t *testing.T) {
	e := newEngine(t, techCatalog())

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(filter.Clause{Attr: filter.Area, Values: str("Docencia")}),
		TopN:    3,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Results)
	assert.False(t, res.Metadata.HasRelevantResults)
	assert.Equal(t, []filter.Attribute{filter.Area}, res.Metadata.RelaxedFilters)
	assert.Equal(t, []StepKind{StepApply, StepRelax, StepApply, StepNoResults}, kinds(res.Trace))
	assert.Equal(t, 5, res.Trace[2].Results)
	assert.Contains(t, res.Trace[2].Rejected, "area")
}

func TestSearch_StrictMatchNeedsNoRelaxation(t *testing.T) {
	ps := []domain.JobPosting{
		{ID: 1, Modality: "Remoto", Industry: "Salud"},
		{ID: 2, Modality: "Remoto", Industry: "Tecnología"},
		{ID: 3, Modality: "Presencial", Industry: "Tecnología"},
	}
	e := newEngine(t, ps)

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(
			filter.Clause{Attr: filter.Modality, Values: str("Remoto")},
			filter.Clause{Attr: filter.Industry, Values: str("Tecnología")},
		),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, ids(res.Results))
	assert.True(t, res.Metadata.HasRelevantResults)
	assert.Empty(t, res.Metadata.RelaxedFilters)
	assert.Equal(t, []StepKind{StepApply}, kinds(res.Trace))
}

func TestSearch_SeniorityFromFreeText(t *testing.T) {
	e := newEngine(t, []domain.JobPosting{
		{ID: 1, MinExperience: "2 años"},
		{ID: 2, MinExperience: "7 años"},
	})

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(filter.Clause{Attr: filter.Seniority, Values: str("Junior")}),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(res.Results))
}

func TestSearch_RelaxesNonCriticalFirst(t *testing.T) {
	ps := []domain.JobPosting{
		{ID: 1, Subarea: "Datos", Industry: "Tecnología", Location: "Valparaíso", Modality: "Presencial"},
		{ID: 2, Subarea: "Desarrollo", Industry: "Tecnología", Location: "Santiago", Modality: "Remoto"},
	}
	e := newEngine(t, ps)

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(
			filter.Clause{Attr: filter.Area, Values: str("Datos")},
			filter.Clause{Attr: filter.Industry, Values: str("Tecnología")},
			filter.Clause{Attr: filter.Modality, Values: str("Remoto")},
			filter.Clause{Attr: filter.Location, Values: str("Santiago")},
		),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, ids(res.Results))
	assert.True(t, res.Metadata.HasRelevantResults)
	assert.Equal(t, []filter.Attribute{filter.Location, filter.Modality}, res.Metadata.RelaxedFilters)
	for _, a := range res.Metadata.RelaxedFilters {
		assert.False(t, a.Critical())
	}
}

func TestSearch_CriticalRelaxationKeptWhenIntentSurvives(t *testing.T) {
	ps := []domain.JobPosting{
		{ID: 1, Industry: "Salud", Subarea: "Administración"},
		{ID: 2, Industry: "Tecnología", Subarea: "Enfermería"},
	}
	e := newEngine(t, ps)

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(
			filter.Clause{Attr: filter.Industry, Values: str("Salud")},
			filter.Clause{Attr: filter.Area, Values: str("Enfermería")},
		),
	})
	require.NoError(t, err)

	assert.Equal(t, []filter.Attribute{filter.Industry, filter.Area}, res.Metadata.RelaxedFilters)
	assert.True(t, res.Metadata.HasRelevantResults)
	assert.Equal(t, []int64{1, 2}, ids(res.Results))

	// relaxing industry alone left only a Tecnología posting: rejected
	assert.Equal(t, []StepKind{StepApply, StepRelax, StepApply, StepRelax, StepApply}, kinds(res.Trace))
	assert.NotEmpty(t, res.Trace[2].Rejected)
	assert.Empty(t, res.Trace[4].Rejected)
}

func TestSearch_MonotonicRelaxation(t *testing.T) {
	e := newEngine(t, techCatalog())

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(
			filter.Clause{Attr: filter.Industry, Values: str("Salud")},
			filter.Clause{Attr: filter.Role, Values: str("Enfermera")},
			filter.Clause{Attr: filter.Accessibility, Values: []filter.Value{filter.BoolValue(true)}},
		),
		Exclude: filter.NewSet(filter.Clause{Attr: filter.Modality, Values: str("Presencial")}),
	})
	require.NoError(t, err)

	prev := -1
	relaxes := 0
	for _, s := range res.Trace {
		switch s.Kind {
		case StepApply:
			size := s.Include.Len() + s.Exclude.Len()
			if prev >= 0 {
				assert.Equal(t, prev-1, size)
			}
			prev = size
		case StepRelax:
			relaxes++
		}
	}
	assert.Equal(t, 4, relaxes)
	assert.Equal(t, StepNoResults, res.Trace[len(res.Trace)-1].Kind)
	assert.Equal(t, []filter.Attribute{filter.Accessibility, filter.Modality, filter.Role, filter.Industry}, res.Metadata.RelaxedFilters)
}

func TestSearch_UnfilteredFallback(t *testing.T) {
	e := newEngine(t, techCatalog(), WithUnfilteredFallback(true))

	res, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(filter.Clause{Attr: filter.Industry, Values: str("Salud")}),
		TopN:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, ids(res.Results))
	assert.False(t, res.Metadata.HasRelevantResults)
	assert.Equal(t, StepFallback, res.Trace[len(res.Trace)-1].Kind)
}

func TestSearch_Pagination(t *testing.T) {
	e := newEngine(t, techCatalog(), WithDefaultTopN(2), WithMaxTopN(2))

	res, err := e.Search(context.Background(), Request{TopN: 10, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids(res.Results))

	res, err = e.Search(context.Background(), Request{Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(res.Results))
}

func TestSearch_VarietyIsSeeded(t *testing.T) {
	run := func() []int64 {
		e := newEngine(t, techCatalog(), WithRandSource(rand.NewPCG(3, 4)))
		res, err := e.Search(context.Background(), Request{TopN: 3, Variety: true})
		require.NoError(t, err)
		require.Len(t, res.Results, 3)
		return ids(res.Results)
	}
	assert.Equal(t, run(), run())
}

func TestSearch_InvalidValue(t *testing.T) {
	e := newEngine(t, techCatalog())
	_, err := e.Search(context.Background(), Request{
		Include: filter.NewSet(filter.Clause{Attr: filter.Transport, Values: str("yes")}),
	})
	assert.ErrorIs(t, err, filter.ErrInvalidFilterValue)
}

type failingSource struct{ err error }

func (f failingSource) Snapshot(context.Context) (*catalog.Set, error) { return nil, f.err }

func TestSearch_CatalogErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	e, err := New(failingSource{boom}, WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	_, err = e.Search(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
}

func TestStep_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Step{Kind: StepRelax, Removed: Candidate{Side: SideInclude, Attribute: filter.Industry}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"relax","payload":{"removed":{"side":"include","attribute":"industry"}}}`, string(b))

	b, err = json.Marshal(Step{Kind: StepApply, Include: filter.NewSet(filter.Clause{Attr: filter.Role, Values: str("QA")}), Results: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"apply","payload":{"include":{"role":["QA"]},"exclude":{},"results":2}}`, string(b))
}
