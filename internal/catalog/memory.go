package catalog

import (
	"context"
	"sync"

	"jobmatch-engine/internal/domain"
)

// Memory is an in-process Source. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	postings []domain.JobPosting
}

func NewMemory(postings ...domain.JobPosting) *Memory {
	m := &Memory{}
	m.Add(postings...)
	return m
}

func (m *Memory) Add(postings ...domain.JobPosting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings = append(m.postings, postings...)
}

func (m *Memory) Snapshot(ctx context.Context) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewSet(m.postings), nil
}
