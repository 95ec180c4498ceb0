package history

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository, used
// when no database is configured and in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []Record // insertion order, oldest first
	byID    map[string]int
}

// NewInMemoryRepository creates an in-memory route record repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]int)}
}

// Insert adds a record.
func (r *InMemoryRepository) Insert(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, *rec)
	return nil
}

// Get retrieves a record by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	rec := r.records[idx]
	return &rec, nil
}

// List returns records newest first.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := normalizeLimit(opts.Limit)

	var matched []Record
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if opts.Profile != "" && rec.ProfileName != opts.Profile {
			continue
		}
		matched = append(matched, rec)
		if len(matched) > limit {
			break
		}
	}

	result := &ListResult{Records: matched}
	if len(matched) > limit {
		result.Records = matched[:limit]
		result.HasMore = true
	}
	return result, nil
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 200:
		return 200
	}
	return limit
}
