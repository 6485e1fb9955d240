// Package documents stores the agenda's loosely typed documents, one row
// per document, scoped by collection and owner.
package documents

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/server/models"
)

type Repository interface {
	// Query returns the owner's documents of collection whose fields
	// contain every key/value of filter.
	Query(ctx context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error)
	Insert(ctx context.Context, doc *models.Document) error
	// Upsert writes doc. With merge the given fields are laid over the
	// stored ones instead of replacing them. A row with the same id that
	// belongs to another owner or collection yields common.ErrNotFound.
	Upsert(ctx context.Context, doc *models.Document, merge bool) error
	Get(ctx context.Context, ownerID, collection, id string) (*models.Document, error)
	// Delete is a no-op for a missing document.
	Delete(ctx context.Context, ownerID, collection, id string) error
}
