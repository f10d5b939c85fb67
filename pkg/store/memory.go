package store

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/matzehuels/statmap/pkg/errors"
)

// MemoryStore keeps records in a map. Records are copied on the way in and
// out so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, r *Record) error {
	if err := validID(r.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = clone(r)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "result %s not found", id)
	}
	return clone(r), nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, clone(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func clone(r *Record) *Record {
	c := *r
	c.Map = append([]byte(nil), r.Map...)
	c.Datasets = maps.Clone(r.Datasets)
	return &c
}
