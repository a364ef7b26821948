// Package memory keeps visualization records in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/OFFIS-RIT/docvis/pkg/store"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]store.Record
}

func New() *Store {
	return &Store{records: make(map[string]store.Record)}
}

func (s *Store) Save(_ context.Context, rec *store.Record) error {
	if err := store.Prepare(rec); err != nil {
		return err
	}
	cp := *rec
	cp.Data = slices.Clone(rec.Data)

	s.mu.Lock()
	s.records[cp.ID] = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*store.Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	rec.Data = slices.Clone(rec.Data)
	return &rec, nil
}

func (s *Store) ListByDocument(_ context.Context, documentID string) ([]store.Record, error) {
	s.mu.RLock()
	out := []store.Record{}
	for _, rec := range s.records {
		if rec.DocumentID == documentID {
			rec.Data = slices.Clone(rec.Data)
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	store.SortNewestFirst(out)
	return out, nil
}

func (s *Store) Close() error { return nil }
