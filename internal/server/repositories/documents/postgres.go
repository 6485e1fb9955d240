package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/dbx"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
)

// PostgresRepository keeps fields in a jsonb column; filters use @>.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Query(ctx context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	query := `
		SELECT id, collection, owner_id, fields, created_at, updated_at
		FROM documents
		WHERE owner_id = $1 AND collection = $2 AND fields @> $3::jsonb
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, collection, string(raw))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, doc *models.Document) error {
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query := `
		INSERT INTO documents (id, collection, owner_id, fields)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, doc.ID, doc.Collection, doc.OwnerID, string(raw)).
		Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Document, merge bool) error {
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	set := "EXCLUDED.fields"
	if merge {
		set = "documents.fields || EXCLUDED.fields"
	}
	query := `
		INSERT INTO documents (id, collection, owner_id, fields)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (id)
		DO UPDATE SET
			fields = ` + set + `,
			updated_at = now()
			WHERE documents.owner_id = EXCLUDED.owner_id
			  AND documents.collection = EXCLUDED.collection
	`
	res, err := r.db.ExecContext(ctx, query, doc.ID, doc.Collection, doc.OwnerID, string(raw))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, collection, id string) (*models.Document, error) {
	query := `
		SELECT id, collection, owner_id, fields, created_at, updated_at
		FROM documents
		WHERE id = $1 AND owner_id = $2 AND collection = $3
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id, ownerID, collection))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, collection, id string) error {
	query := `
		DELETE FROM documents
		WHERE id = $1 AND owner_id = $2 AND collection = $3
	`
	if _, err := r.db.ExecContext(ctx, query, id, ownerID, collection); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	doc := &models.Document{}
	var raw []byte
	if err := s.Scan(&doc.ID, &doc.Collection, &doc.OwnerID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode fields of %s: %w", doc.ID, err)
	}
	return doc, nil
}
