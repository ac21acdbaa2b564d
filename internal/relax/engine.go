package relax

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/filter"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/selector"
)

const (
	defaultMaxTopN   = 50
	reasonExhausted  = "no matches even after relaxing"
	rejectedCritical = "relevance: no result carries the requested "
)

// Request is one search. Include and Exclude keep the caller's key order,
// which breaks ties between attributes of equal priority.
type Request struct {
	Include   filter.Set
	Exclude   filter.Set
	SalaryMin *int64
	Currency  string
	TopN      int
	Offset    int
	Variety   bool
}

type Filters struct {
	Include filter.Set `json:"include"`
	Exclude filter.Set `json:"exclude"`
}

type Metadata struct {
	HasRelevantResults bool               `json:"has_relevant_results"`
	RelaxedFilters     []filter.Attribute `json:"relaxed_filters"`
	OriginalFilters    Filters            `json:"original_filters"`
}

// Result is built fresh for every search and never stored by the engine.
type Result struct {
	Results  []domain.JobPosting
	Trace    []Step
	Metadata Metadata
}

type Engine struct {
	source             catalog.Source
	defaultTopN        int
	maxTopN            int
	poolFactor         int
	fallbackUnfiltered bool
	rand               *rand.Rand
	log                zerolog.Logger
}

type Option func(*Engine)

func WithDefaultTopN(n int) Option { return func(e *Engine) { e.defaultTopN = n } }

func WithMaxTopN(n int) Option { return func(e *Engine) { e.maxTopN = n } }

func WithPoolFactor(n int) Option { return func(e *Engine) { e.poolFactor = n } }

// WithUnfilteredFallback makes an exhausted search return a page of the
// whole catalog (trace kind "fallback") instead of an empty result.
func WithUnfilteredFallback(on bool) Option { return func(e *Engine) { e.fallbackUnfiltered = on } }

// WithRandSource fixes the randomness used by variety mode.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rand = rand.New(&lockedSource{src: src})
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

func New(source catalog.Source, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	e := &Engine{
		source:      source,
		defaultTopN: selector.DefaultTopN,
		maxTopN:     defaultMaxTopN,
		poolFactor:  selector.DefaultPoolFactor,
		log:         logger.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.defaultTopN <= 0 {
		e.defaultTopN = selector.DefaultTopN
	}
	if e.maxTopN < e.defaultTopN {
		e.maxTopN = e.defaultTopN
	}
	return e, nil
}

// Search snapshots the catalog and runs the request against it. Catalog
// errors are returned as is; an empty outcome is not an error.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.SearchSnapshot(snap, req)
}

// SearchSnapshot runs the request against an already taken snapshot. The
// only error it returns is filter.ErrInvalidFilterValue.
func (e *Engine) SearchSnapshot(snap *catalog.Set, req Request) (Result, error) {
	req = e.normalize(req)
	b := filter.Builder{Vocabulary: filter.NewVocabulary(snap.Distinct(func(p domain.JobPosting) string { return p.Subarea }))}

	res := Result{Metadata: Metadata{
		RelaxedFilters:  []filter.Attribute{},
		OriginalFilters: Filters{Include: req.Include, Exclude: req.Exclude},
	}}
	e.logUnknown(req)

	inc, exc := req.Include, req.Exclude
	matches, err := e.apply(b, snap, inc, exc, req, &res)
	if err != nil {
		return Result{}, err
	}
	if matches.Count() > 0 {
		res.Results = e.page(matches, req)
		res.Metadata.HasRelevantResults = true
		e.logDone(res)
		return res, nil
	}

	queue := Order(inc, exc)
	for i := 0; i < len(queue); i++ {
		c := queue[i]
		if !active(c, inc, exc) {
			continue
		}
		if c.Attribute.Critical() && hasNonCritical(inc, exc) {
			// Revisit once the remaining non-critical filters are gone.
			queue = append(queue, c)
			continue
		}

		if c.Side == SideInclude {
			inc = inc.Without(c.Attribute)
		} else {
			exc = exc.Without(c.Attribute)
		}
		res.Metadata.RelaxedFilters = append(res.Metadata.RelaxedFilters, c.Attribute)
		res.Trace = append(res.Trace, Step{Kind: StepRelax, Removed: c})

		matches, err = e.apply(b, snap, inc, exc, req, &res)
		if err != nil {
			return Result{}, err
		}
		if matches.Count() == 0 {
			continue
		}

		page := e.page(matches, req)
		if lost, ok := lostIntent(b, req.Include, inc, page); ok {
			res.Trace[len(res.Trace)-1].Rejected = rejectedCritical + string(lost)
			continue
		}
		res.Results = page
		res.Metadata.HasRelevantResults = true
		e.logDone(res)
		return res, nil
	}

	if e.fallbackUnfiltered {
		res.Results = e.page(snap, req)
		res.Trace = append(res.Trace, Step{Kind: StepFallback, Reason: reasonExhausted})
	} else {
		res.Results = []domain.JobPosting{}
		res.Trace = append(res.Trace, Step{Kind: StepNoResults, Reason: reasonExhausted})
	}
	e.logDone(res)
	return res, nil
}

func (e *Engine) apply(b filter.Builder, snap *catalog.Set, inc, exc filter.Set, req Request, res *Result) (*catalog.Set, error) {
	pred, err := b.Build(filter.Criteria{
		Include:   inc,
		Exclude:   exc,
		SalaryMin: req.SalaryMin,
		Currency:  req.Currency,
	})
	if err != nil {
		return nil, err
	}
	matches := snap.Filter(pred)
	res.Trace = append(res.Trace, Step{Kind: StepApply, Include: inc, Exclude: exc, Results: matches.Count()})
	return matches, nil
}

func (e *Engine) page(matches *catalog.Set, req Request) []domain.JobPosting {
	return selector.Select(matches, selector.Options{
		TopN:       req.TopN,
		Offset:     req.Offset,
		Variety:    req.Variety,
		PoolFactor: e.poolFactor,
		Rand:       e.rand,
	})
}

func (e *Engine) normalize(req Request) Request {
	if req.TopN <= 0 {
		req.TopN = e.defaultTopN
	}
	if req.TopN > e.maxTopN {
		req.TopN = e.maxTopN
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return req
}

func active(c Candidate, inc, exc filter.Set) bool {
	if c.Side == SideInclude {
		return inc.Has(c.Attribute)
	}
	return exc.Has(c.Attribute)
}

// lostIntent reports the first critical attribute that was requested,
// has been relaxed away, and is carried by no posting on the page.
func lostIntent(b filter.Builder, original, current filter.Set, page []domain.JobPosting) (filter.Attribute, bool) {
	for _, a := range []filter.Attribute{filter.Industry, filter.Area} {
		want := original.Values(a)
		if len(want) == 0 || current.Has(a) {
			continue
		}
		carried := false
		for _, p := range page {
			if b.Carries(a, want, p) {
				carried = true
				break
			}
		}
		if !carried {
			return a, true
		}
	}
	return "", false
}

func (e *Engine) logUnknown(req Request) {
	for _, s := range []filter.Set{req.Include, req.Exclude} {
		for _, a := range s.Attributes() {
			if !a.Known() {
				e.log.Debug().Str("attribute", string(a)).Msg("ignoring unknown filter attribute")
			}
		}
	}
}

func (e *Engine) logDone(res Result) {
	relaxed := make([]string, 0, len(res.Metadata.RelaxedFilters))
	for _, a := range res.Metadata.RelaxedFilters {
		relaxed = append(relaxed, string(a))
	}
	e.log.Debug().
		Int("results", len(res.Results)).
		Int("steps", len(res.Trace)).
		Strs("relaxed", relaxed).
		Bool("relevant", res.Metadata.HasRelevantResults).
		Msg("search finished")
}

// lockedSource lets one seeded generator serve concurrent searches.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
