package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]models.Fields
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cols: make(map[string]map[string]models.Fields)}
}

func (m *MemoryStore) Query(_ context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for id, f := range m.cols[collection] {
		if filter.Match(f) {
			out = append(out, Document{ID: id, Fields: f.Clone()})
		}
	}
	// Map iteration order is random; keep results reproducible.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Add(_ context.Context, collection string, fields models.Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.col(collection)[id] = fields.Clone()
	return id, nil
}

func (m *MemoryStore) Set(_ context.Context, collection, id string, fields models.Fields, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col := m.col(collection)
	cur, ok := col[id]
	if !merge || !ok {
		col[id] = fields.Clone()
		return nil
	}
	for k, v := range fields {
		cur[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols[collection], id)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.cols[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
	}
	return Document{ID: id, Fields: f.Clone()}, nil
}

func (m *MemoryStore) col(name string) map[string]models.Fields {
	c, ok := m.cols[name]
	if !ok {
		c = make(map[string]models.Fields)
		m.cols[name] = c
	}
	return c
}
