package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	queryQ  = `(?s)^\s*SELECT\s+id,\s*collection,\s*owner_id,\s*fields,\s*created_at,\s*updated_at\s+FROM\s+documents\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+collection\s*=\s*\$2\s+AND\s+fields\s*@>\s*\$3::jsonb\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	insertQ = `(?s)^\s*INSERT\s+INTO\s+documents\s*\(id,\s*collection,\s*owner_id,\s*fields\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4::jsonb\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	upsertQ = `(?s)^\s*INSERT\s+INTO\s+documents\b.*ON\s+CONFLICT\s*\(id\)\s*DO\s+UPDATE\s+SET\s+fields\s*=\s*EXCLUDED\.fields,.*WHERE\s+documents\.owner_id\s*=\s*EXCLUDED\.owner_id.*$`
	mergeQ  = `(?s)^\s*INSERT\s+INTO\s+documents\b.*DO\s+UPDATE\s+SET\s+fields\s*=\s*documents\.fields\s*\|\|\s*EXCLUDED\.fields,.*$`
	getQ    = `(?s)^\s*SELECT\s+id,.*FROM\s+documents\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+AND\s+collection\s*=\s*\$3\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+documents\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+AND\s+collection\s*=\s*\$3\s*$`
)

var docCols = []string{"id", "collection", "owner_id", "fields", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestQuery_EncodesFilter(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(docCols).
		AddRow("d1", "aulas", "u1", []byte(`{"disciplinaId":"s1","data":"2025-03-12"}`), ts, ts).
		AddRow("d2", "aulas", "u1", []byte(`{"disciplinaId":"s1"}`), ts, ts)
	mock.ExpectQuery(queryQ).
		WithArgs("u1", "aulas", `{"disciplinaId":"s1"}`).
		WillReturnRows(rows)

	got, err := repo.Query(context.Background(), "u1", "aulas", map[string]any{"disciplinaId": "s1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, "2025-03-12", got[0].Fields["data"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_NilFilterMatchesAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(queryQ).
		WithArgs("u1", "disciplinas", `{}`).
		WillReturnRows(sqlmock.NewRows(docCols))

	got, err := repo.Query(context.Background(), "u1", "disciplinas", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuery_BadFieldsJSON(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now()

	mock.ExpectQuery(queryQ).
		WillReturnRows(sqlmock.NewRows(docCols).AddRow("d1", "aulas", "u1", []byte(`{`), ts, ts))

	_, err := repo.Query(context.Background(), "u1", "aulas", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode fields of d1")
}

func TestQuery_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(queryQ).WillReturnError(errors.New("db down"))

	_, err := repo.Query(context.Background(), "u1", "aulas", nil)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestInsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQ).
		WithArgs("d1", "disciplinas", "u1", `{"nome":"Redes"}`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	doc := &models.Document{ID: "d1", Collection: "disciplinas", OwnerID: "u1", Fields: map[string]any{"nome": "Redes"}}
	require.NoError(t, repo.Insert(context.Background(), doc))
	assert.Equal(t, ts, doc.CreatedAt)
}

func TestUpsert(t *testing.T) {
	doc := &models.Document{ID: "d1", Collection: "aulas", OwnerID: "u1", Fields: map[string]any{"observacoes": "lab"}}

	t.Run("replace", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(upsertQ).
			WithArgs("d1", "aulas", "u1", `{"observacoes":"lab"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Upsert(context.Background(), doc, false))
	})

	t.Run("merge", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(mergeQ).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Upsert(context.Background(), doc, true))
	})

	t.Run("foreign row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(upsertQ).WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, repo.Upsert(context.Background(), doc, false), common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(upsertQ).WillReturnError(errors.New("db down"))
		require.Error(t, repo.Upsert(context.Background(), doc, false))
	})
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(getQ).
		WithArgs("d1", "u1", "disciplinas").
		WillReturnRows(sqlmock.NewRows(docCols).AddRow("d1", "disciplinas", "u1", []byte(`{"nome":"Redes"}`), ts, ts))

	got, err := repo.Get(context.Background(), "u1", "disciplinas", "d1")
	require.NoError(t, err)
	assert.Equal(t, &models.Document{
		ID: "d1", Collection: "disciplinas", OwnerID: "u1",
		Fields:    map[string]any{"nome": "Redes"},
		CreatedAt: ts, UpdatedAt: ts,
	}, got)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQ).WithArgs("d9", "u1", "disciplinas").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "disciplinas", "d9")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).WithArgs("d1", "u1", "aulas").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Delete(context.Background(), "u1", "aulas", "d1"))

	mock.ExpectExec(deleteQ).WithArgs("d1", "u1", "aulas").WillReturnError(errors.New("db err"))
	require.Error(t, repo.Delete(context.Background(), "u1", "aulas", "d1"))
}
