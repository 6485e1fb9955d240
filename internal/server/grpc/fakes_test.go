package grpc

import (
	"context"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/services"
	"github.com/google/uuid"
)

var ana = &models.User{ID: "u1", Email: "ana@example.com", DisplayName: "Ana"}

// fakeUsers accepts ana/segredo1 and hands out "access-N"/"refresh-N" pairs.
type fakeUsers struct {
	mu           sync.Mutex
	expired      map[string]bool
	refreshToken string
	issued       int
	refreshCalls int
	signedOut    []string
	resetMails   []string
	passwords    int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{expired: map[string]bool{}}
}

func (f *fakeUsers) issue() *services.AuthResult {
	f.issued++
	n := strconv.Itoa(f.issued)
	f.refreshToken = "refresh-" + n
	return &services.AuthResult{User: ana, Tokens: &services.TokenPair{AccessToken: "access-" + n, RefreshToken: f.refreshToken}}
}

func (f *fakeUsers) expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired[token] = true
}

func (f *fakeUsers) SignUp(_ context.Context, email, password, displayName, lab string) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case email == "":
		return nil, common.NewValidationError("email", "Campo obrigatório")
	case email == ana.Email:
		return nil, common.ErrAlreadyExists
	}
	return f.issue(), nil
}

func (f *fakeUsers) SignIn(_ context.Context, email, password string) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if email != ana.Email || password != "segredo1" {
		return nil, common.ErrUnauthenticated
	}
	return f.issue(), nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, refreshToken string) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if refreshToken != f.refreshToken {
		return nil, common.ErrRefreshTokenExpired
	}
	return f.issue(), nil
}

func (f *fakeUsers) SignOut(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, refreshToken)
	return nil
}

func (f *fakeUsers) Whoami(_ context.Context, userID string) (*models.User, error) {
	if userID != ana.ID {
		return nil, common.ErrUnauthenticated
	}
	return ana, nil
}

func (f *fakeUsers) SendPasswordReset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetMails = append(f.resetMails, email)
	return nil
}

func (f *fakeUsers) ResetPassword(_ context.Context, token, newPassword string) error {
	return common.NewValidationError("token", "Link de redefinição inválido ou expirado")
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID, displayName, lab string) (*models.User, error) {
	if userID != ana.ID {
		return nil, common.ErrUnauthenticated
	}
	if displayName == "" {
		return nil, common.NewValidationError("displayName", "Campo obrigatório")
	}
	u := *ana
	u.DisplayName, u.Lab = displayName, lab
	return &u, nil
}

func (f *fakeUsers) ChangePassword(_ context.Context, userID, currentPassword, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if currentPassword != "segredo1" {
		return common.NewValidationError("currentPassword", "Senha atual incorreta")
	}
	f.passwords++
	return nil
}

func (f *fakeUsers) UserIDFromAccessToken(token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expired[token] {
		return "", common.ErrTokenExpired
	}
	if !strings.HasPrefix(token, "access-") {
		return "", common.ErrInvalidToken
	}
	return ana.ID, nil
}

// fakeDocs is an owner-scoped in-memory store with equality filters.
type fakeDocs struct {
	mu   sync.Mutex
	docs map[string]*models.Document
	err  error
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: map[string]*models.Document{}}
}

func (f *fakeDocs) Query(_ context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Document
	for _, d := range f.docs {
		if d.OwnerID != ownerID || d.Collection != collection {
			continue
		}
		ok := true
		for k, v := range filter {
			if d.Fields[k] != v {
				ok = false
			}
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocs) Add(_ context.Context, ownerID, collection string, fields map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	fields = maps.Clone(fields)
	fields[common.FieldOwnerID] = ownerID
	f.docs[id] = &models.Document{ID: id, Collection: collection, OwnerID: ownerID, Fields: fields}
	return id, nil
}

func (f *fakeDocs) Set(_ context.Context, ownerID, collection, id string, fields map[string]any, merge bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.docs[id]
	if ok && cur.OwnerID != ownerID {
		return common.ErrNotFound
	}
	if ok && merge {
		maps.Copy(cur.Fields, fields)
		return nil
	}
	f.docs[id] = &models.Document{ID: id, Collection: collection, OwnerID: ownerID, Fields: maps.Clone(fields)}
	return nil
}

func (f *fakeDocs) Get(_ context.Context, ownerID, collection, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID || d.Collection != collection {
		return nil, common.ErrNotFound
	}
	return d, nil
}

func (f *fakeDocs) Delete(_ context.Context, ownerID, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.docs[id]; ok && d.OwnerID == ownerID {
		delete(f.docs, id)
	}
	return nil
}
