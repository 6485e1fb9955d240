package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteStore keeps documents in a local database. It backs offline mode,
// where the agenda runs without a server.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, fields FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		f, err := unmarshalFields(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		if filter.Match(f) {
			out = append(out, Document{ID: id, Fields: f})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, fields models.Fields) (string, error) {
	id := uuid.NewString()
	if err := put(ctx, s.db, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, fields models.Fields, merge bool) error {
	if !merge {
		return put(ctx, s.db, collection, id, fields)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cur, err := get(ctx, tx, collection, id)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		merged := cur.Clone()
		for k, v := range fields {
			merged[k] = v
		}
		return put(ctx, tx, collection, id, merged)
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	f, err := get(ctx, s.db, collection, id)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Fields: f}, nil
}

func get(ctx context.Context, db dbx.DBTX, collection, id string) (models.Fields, error) {
	var raw []byte
	err := db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Fields{}, fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return unmarshalFields(raw)
}

func put(ctx context.Context, db dbx.DBTX, collection, id string, fields models.Fields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (id, collection, fields) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET fields = excluded.fields
	`, id, collection, string(raw))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func unmarshalFields(raw []byte) (models.Fields, error) {
	f := models.Fields{}
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f, nil
}
