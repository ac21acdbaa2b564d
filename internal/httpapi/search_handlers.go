package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/filter"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/query"
	"jobmatch-engine/internal/relax"
)

const maxSearchBody = 1 << 20

// SearchRequest carries either a prompt to tokenize or explicit filters.
// When Include and Exclude are both absent the prompt is parsed; salary and
// currency given here win over the ones found in the prompt.
type SearchRequest struct {
	Prompt    string      `json:"prompt"`
	Include   *filter.Set `json:"include"`
	Exclude   *filter.Set `json:"exclude"`
	SalaryMin *int64      `json:"salary_min"`
	Currency  string      `json:"currency"`
	TopN      int         `json:"topn"`
	Offset    int         `json:"offset"`
	Variety   bool        `json:"variety"`
}

type SearchResponse struct {
	Prompt    string         `json:"prompt"`
	Include   filter.Set     `json:"include"`
	Exclude   filter.Set     `json:"exclude"`
	SalaryMin *int64         `json:"salary_min"`
	Currency  string         `json:"currency"`
	Results   []Job          `json:"results"`
	Trace     []relax.Step   `json:"trace"`
	Metadata  relax.Metadata `json:"metadata"`
}

type SearchHandler struct {
	Source    catalog.Source
	CfgVal    *atomic.Value // stores config.Config
	NewEngine func(source catalog.Source, cfg config.Config) (*relax.Engine, error)
}

func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, filter.ErrInvalidFilterValue) {
			WriteError(w, r, http.StatusBadRequest, codeInvalidFilter, err.Error())
			return
		}
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON: "+err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	snap, err := h.Source.Snapshot(r.Context())
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("catalog snapshot failed")
		WriteError(w, r, http.StatusInternalServerError, codeCatalog, "catalog unavailable")
		return
	}

	var include, exclude filter.Set
	salaryMin, currency := req.SalaryMin, req.Currency
	if req.Include == nil && req.Exclude == nil {
		parsed := query.NewParser(query.NewTaxonomy(cfg.Taxonomy, snap)).Parse(req.Prompt)
		include, exclude = parsed.Include, parsed.Exclude
		if salaryMin == nil {
			salaryMin = parsed.SalaryMin
		}
		if currency == "" {
			currency = parsed.Currency
		}
	} else {
		if req.Include != nil {
			include = *req.Include
		}
		if req.Exclude != nil {
			exclude = *req.Exclude
		}
	}

	eng, err := h.NewEngine(h.Source, cfg)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	res, err := eng.SearchSnapshot(snap, relax.Request{
		Include:   include,
		Exclude:   exclude,
		SalaryMin: salaryMin,
		Currency:  currency,
		TopN:      req.TopN,
		Offset:    req.Offset,
		Variety:   req.Variety,
	})
	if err != nil {
		if errors.Is(err, filter.ErrInvalidFilterValue) {
			WriteError(w, r, http.StatusBadRequest, codeInvalidFilter, err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	logger.Ctx(r.Context()).Info().
		Str("include", include.String()).
		Str("exclude", exclude.String()).
		Int("results", len(res.Results)).
		Bool("relevant", res.Metadata.HasRelevantResults).
		Msg("search")

	writeJSON(w, SearchResponse{
		Prompt:    req.Prompt,
		Include:   include,
		Exclude:   exclude,
		SalaryMin: salaryMin,
		Currency:  currency,
		Results:   jobsFrom(res.Results, false),
		Trace:     res.Trace,
		Metadata:  res.Metadata,
	})
}
