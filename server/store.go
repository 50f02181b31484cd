package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/pulseboard-io/pulseboard/engine"
	"github.com/pulseboard-io/pulseboard/schema"
)

// ============================================================================
// DATASET STORE — In-Memory, Mutex-Guarded
// ============================================================================
// Holds parsed datasets for the lifetime of the process. Locking
// discipline: every map access goes through mu; stored rows and schema are
// read-only after Put, so handlers may aggregate over them without holding
// the lock.
// ============================================================================

// StoredDataset is one uploaded dataset with its inferred schema.
type StoredDataset struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	RowCount   int            `json:"rowCount"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Schema     *schema.Schema `json:"schema"`

	Rows engine.Dataset `json:"-"`
}

// Store is a concurrency-safe in-memory dataset registry.
type Store struct {
	mu       sync.RWMutex
	seq      int
	datasets map[string]*StoredDataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{datasets: make(map[string]*StoredDataset)}
}

// Put registers a dataset and returns it with a fresh ID.
func (s *Store) Put(name string, rows engine.Dataset, sch *schema.Schema) *StoredDataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ds := &StoredDataset{
		ID:         fmt.Sprintf("ds-%04d", s.seq),
		Name:       name,
		RowCount:   len(rows),
		UploadedAt: time.Now(),
		Schema:     sch,
		Rows:       rows,
	}
	s.datasets[ds.ID] = ds
	return ds
}

// Get returns a dataset by ID.
func (s *Store) Get(id string) (*StoredDataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	return ds, ok
}

// Delete removes a dataset by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	return true
}

// List returns every stored dataset, unordered.
func (s *Store) List() []*StoredDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StoredDataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	return out
}
