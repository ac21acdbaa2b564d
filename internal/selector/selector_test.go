package selector

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
)

func postings(n int) *catalog.Set {
	ps := make([]domain.JobPosting, 0, n)
	// insert in reverse so id ordering is not the insertion order
	for i := n; i >= 1; i-- {
		ps = append(ps, domain.JobPosting{ID: int64(i), Title: "job"})
	}
	return catalog.NewSet(ps)
}

func ids(ps []domain.JobPosting) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSelect_DeterministicPage(t *testing.T) {
	records := postings(10)
	for range 3 {
		got := Select(records, Options{TopN: 3, Offset: 3})
		assert.Equal(t, []int64{4, 5, 6}, ids(got))
	}
}

func TestSelect_PaginationPartitions(t *testing.T) {
	records := postings(10)

	var seen []int64
	for offset := 0; ; offset += 3 {
		page := Select(records, Options{TopN: 3, Offset: offset})
		if len(page) == 0 {
			break
		}
		assert.LessOrEqual(t, len(page), 3)
		seen = append(seen, ids(page)...)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, seen)
}

func TestSelect_Empty(t *testing.T) {
	assert.Empty(t, Select(catalog.NewSet(nil), Options{TopN: 3, Variety: true}))
	assert.Empty(t, Select(nil, Options{TopN: 3}))
}

func TestSelect_DefaultTopN(t *testing.T) {
	assert.Len(t, Select(postings(10), Options{}), DefaultTopN)
}

func TestSelect_Variety(t *testing.T) {
	records := postings(50)
	rng := rand.New(rand.NewPCG(1, 2))

	t.Run("returns distinct postings from the set", func(t *testing.T) {
		for range 20 {
			page := Select(records, Options{TopN: 3, Variety: true, Rand: rng})
			require.Len(t, page, 3)
			got := ids(page)
			assert.NotEqual(t, got[0], got[1])
			assert.NotEqual(t, got[1], got[2])
			for _, id := range got {
				assert.True(t, id >= 1 && id <= 50)
			}
		}
	})

	t.Run("same seed gives same page", func(t *testing.T) {
		a := Select(records, Options{TopN: 3, Variety: true, Rand: rand.New(rand.NewPCG(7, 7))})
		b := Select(records, Options{TopN: 3, Variety: true, Rand: rand.New(rand.NewPCG(7, 7))})
		assert.Equal(t, ids(a), ids(b))
	})

	t.Run("offset past the pool falls back to id order", func(t *testing.T) {
		page := Select(records, Options{TopN: 2, Offset: 30, PoolFactor: 5, Variety: true, Rand: rng})
		assert.Equal(t, []int64{31, 32}, ids(page))
	})

	t.Run("offset past everything still returns something", func(t *testing.T) {
		page := Select(records, Options{TopN: 3, Offset: 500, Variety: true, Rand: rng})
		assert.Len(t, page, 3)
	})

	t.Run("small set is never over-returned", func(t *testing.T) {
		page := Select(postings(2), Options{TopN: 5, Variety: true, Rand: rng})
		assert.Len(t, page, 2)
	})
}
