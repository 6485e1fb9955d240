package services

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/dbx"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/documents"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memRepos is an in-memory RepositoryManager. Transactions are not
// simulated: the tx handle is ignored.
type memRepos struct {
	mu     sync.Mutex
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
	docs   map[string]*models.Document
	seq    int

	createUserErr  error
	findTokenErr   error
	deleteTokenErr error
	docsErr        error
}

func newMemRepos() *memRepos {
	return &memRepos{
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
		docs:   map[string]*models.Document{},
	}
}

func (m *memRepos) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *memRepos) Users(dbx.DBTX) users.Repository                 { return memUsers{m} }
func (m *memRepos) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m} }
func (m *memRepos) Documents(dbx.DBTX) documents.Repository         { return memDocs{m} }
func (m *memRepos) tokensOf(userID string) (n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

type memUsers struct{ m *memRepos }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.createUserErr != nil {
		return nil, r.m.createUserErr
	}
	for _, x := range r.m.users {
		if x.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	r.m.seq++
	u.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.m.seq)
	u.CreatedAt = time.Now()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id string, hash []byte) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r memUsers) UpdateProfile(_ context.Context, id, displayName, lab string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.DisplayName, u.Lab = displayName, lab
	cp := *u
	return &cp, nil
}

type memTokens struct{ m *memRepos }

func (r memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.findTokenErr != nil {
		return nil, r.m.findTokenErr
	}
	t, ok := r.m.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.deleteTokenErr != nil {
		return r.m.deleteTokenErr
	}
	delete(r.m.tokens, token)
	return nil
}

func (r memTokens) DeleteByUser(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for k, t := range r.m.tokens {
		if t.UserID == userID {
			delete(r.m.tokens, k)
		}
	}
	return nil
}

type memDocs struct{ m *memRepos }

func (r memDocs) Query(_ context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.docsErr != nil {
		return nil, r.m.docsErr
	}
	var out []*models.Document
	for _, d := range r.m.docs {
		if d.OwnerID != ownerID || d.Collection != collection {
			continue
		}
		match := true
		for k, v := range filter {
			if d.Fields[k] != v {
				match = false
			}
		}
		if match {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (r memDocs) Insert(_ context.Context, doc *models.Document) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r memDocs) Upsert(_ context.Context, doc *models.Document, merge bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.docs[doc.ID]
	if !ok {
		r.m.docs[doc.ID] = cloneDoc(doc)
		return nil
	}
	if cur.OwnerID != doc.OwnerID || cur.Collection != doc.Collection {
		return common.ErrNotFound
	}
	if merge {
		maps.Copy(cur.Fields, doc.Fields)
		return nil
	}
	r.m.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r memDocs) Get(_ context.Context, ownerID, collection, id string) (*models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.docs[id]
	if !ok || d.OwnerID != ownerID || d.Collection != collection {
		return nil, common.ErrNotFound
	}
	return cloneDoc(d), nil
}

func (r memDocs) Delete(_ context.Context, ownerID, collection, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if d, ok := r.m.docs[id]; ok && d.OwnerID == ownerID && d.Collection == collection {
		delete(r.m.docs, id)
	}
	return nil
}

func cloneDoc(d *models.Document) *models.Document {
	cp := *d
	cp.Fields = maps.Clone(d.Fields)
	return &cp
}
