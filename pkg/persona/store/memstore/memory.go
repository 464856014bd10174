package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognicore/persona/pkg/persona/extract"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

// Store is an in-memory implementation of store.Store for tests and dry runs.
type Store struct {
	mu      sync.RWMutex
	ids     *store.IDs
	reports map[string]store.Report
	latest  map[string]string // username → report ID
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:     store.NewIDs(),
		reports: make(map[string]store.Report),
		latest:  make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, r store.Report) (store.Report, error) {
	if r.Username == "" {
		return store.Report{}, fmt.Errorf("%w: report username is required", internalerr.ErrInvalidInput)
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.ids.New(r.GeneratedAt)
	}
	r.Location = "memory://" + r.ID
	s.reports[r.ID] = copyReport(r)

	if cur, ok := s.latest[r.Username]; !ok || !s.reports[cur].GeneratedAt.After(r.GeneratedAt) {
		s.latest[r.Username] = r.ID
	}
	return copyReport(r), nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) (store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	return copyReport(r), nil
}

// Latest implements store.Store.
func (s *Store) Latest(ctx context.Context, username string) (store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.latest[username]
	if !ok {
		return store.Report{}, fmt.Errorf("reports for %s: %w", username, internalerr.ErrNotFound)
	}
	return copyReport(s.reports[id]), nil
}

func copyReport(r store.Report) store.Report {
	r.Citations = append([]extract.Citation(nil), r.Citations...)
	return r
}
