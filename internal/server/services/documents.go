package services

import (
	"context"
	"database/sql"
	"fmt"
	"maps"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var collections = map[string]bool{
	common.CollectionSubjects: true,
	common.CollectionSessions: true,
}

// DocumentService is the owner-scoped document store. Every call acts on
// the caller's documents only; the owner field inside the payload is
// always overwritten with the caller's id.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *DocumentService {
	return &DocumentService{db: db, repomanager: m, log: log.With("module", "documents")}
}

func (s *DocumentService) Query(ctx context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.repomanager.Documents(s.db).Query(ctx, ownerID, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return docs, nil
}

func (s *DocumentService) Add(ctx context.Context, ownerID, collection string, fields map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	doc := &models.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		OwnerID:    ownerID,
		Fields:     stamp(fields, ownerID),
	}
	if err := s.repomanager.Documents(s.db).Insert(ctx, doc); err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	s.log.Debug(ctx, "document added", "collection", collection, "id", doc.ID)
	return doc.ID, nil
}

// Set creates or overwrites a document. With merge only the given fields
// change. An id held by another owner yields common.ErrNotFound.
func (s *DocumentService) Set(ctx context.Context, ownerID, collection, id string, fields map[string]any, merge bool) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.NewValidationError("id", "Identificador inválido")
	}
	doc := &models.Document{ID: id, Collection: collection, OwnerID: ownerID, Fields: stamp(fields, ownerID)}
	if err := s.repomanager.Documents(s.db).Upsert(ctx, doc, merge); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentService) Get(ctx context.Context, ownerID, collection, id string) (*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
	}
	doc, err := s.repomanager.Documents(s.db).Get(ctx, ownerID, collection, id)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Delete is a no-op for a missing document.
func (s *DocumentService) Delete(ctx context.Context, ownerID, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := s.repomanager.Documents(s.db).Delete(ctx, ownerID, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func checkCollection(name string) error {
	if !collections[name] {
		return common.NewValidationError("collection", "Coleção desconhecida")
	}
	return nil
}

func stamp(fields map[string]any, ownerID string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	maps.Copy(out, fields)
	out[common.FieldOwnerID] = ownerID
	return out
}
