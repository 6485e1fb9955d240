// Package remote wraps the document store with typed, owner-scoped clients
// for the two agenda collections.
//
// The store itself knows nothing about subjects or sessions: it keeps
// loosely typed documents per collection and answers equality filters. The
// typed clients stamp ownership and timestamps on the way in and decode and
// order rows on the way out. Ordering is always applied here, never assumed
// from the store.
package remote

import (
	"context"
	"reflect"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
)

// Document is one stored row.
type Document struct {
	ID     string        `json:"id"`
	Fields models.Fields `json:"fields"`
}

// Filter matches documents whose fields equal every given value.
type Filter map[string]any

// Match reports whether fields satisfy f.
func (f Filter) Match(fields models.Fields) bool {
	for k, want := range f {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// DocumentStore is the collection-scoped primitive set the typed clients
// are built on. Get returns common.ErrNotFound for a missing id.
type DocumentStore interface {
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Add(ctx context.Context, collection string, fields models.Fields) (string, error)
	Set(ctx context.Context, collection, id string, fields models.Fields, merge bool) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (Document, error)
}
