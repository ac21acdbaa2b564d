// Package selector picks the page of postings shown to the user.
package selector

import (
	"math/rand/v2"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
)

const (
	DefaultTopN       = 3
	DefaultPoolFactor = 10
)

// varietyOrderings are the candidate orderings a variety pool is drawn under.
var varietyOrderings = []catalog.Ordering{
	catalog.ByRecencyTitle,
	catalog.ByCompanyTitle,
	catalog.ByTitleRecency,
	catalog.ByIDDesc,
	catalog.ByLocationTitle,
}

type Options struct {
	TopN    int
	Offset  int
	Variety bool

	// PoolFactor bounds the variety pool to TopN*PoolFactor postings.
	PoolFactor int

	// Rand drives variety mode. Nil uses the package-level generator.
	Rand *rand.Rand
}

// Select returns at most TopN postings.
//
// Without Variety the page is [Offset, Offset+TopN) of the records ordered
// by ascending id, so increasing offsets walk the set without gaps or
// repeats. With Variety a pool is drawn under a random ordering, shuffled and
// then paged; when the offset runs past the pool the id-ordered page is used,
// and if that is empty too the first TopN records are returned.
func Select(records *catalog.Set, opts Options) []domain.JobPosting {
	if records.Count() == 0 {
		return []domain.JobPosting{}
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	offset := max(opts.Offset, 0)

	if !opts.Variety {
		return records.OrderBy(catalog.ByID).Slice(offset, topN)
	}

	factor := opts.PoolFactor
	if factor <= 0 {
		factor = DefaultPoolFactor
	}
	r := randomizer{opts.Rand}

	ordering := varietyOrderings[r.IntN(len(varietyOrderings))]
	pool := records.OrderBy(ordering).Slice(0, topN*factor)
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	if offset < len(pool) {
		return pool[offset:min(offset+topN, len(pool))]
	}
	if page := records.OrderBy(catalog.ByID).Slice(offset, topN); len(page) > 0 {
		return page
	}
	return records.Slice(0, topN)
}

type randomizer struct {
	r *rand.Rand
}

func (r randomizer) IntN(n int) int {
	if r.r == nil {
		return rand.IntN(n)
	}
	return r.r.IntN(n)
}

func (r randomizer) Shuffle(n int, swap func(i, j int)) {
	if r.r == nil {
		rand.Shuffle(n, swap)
		return
	}
	r.r.Shuffle(n, swap)
}
