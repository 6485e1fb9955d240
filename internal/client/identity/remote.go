package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/client/client"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/storage"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/logging"
)

const authKeyName = "auth"

// session is what gets persisted between runs.
type session struct {
	client.Tokens
	Principal *models.Principal `json:"principal,omitempty"`
}

type RemoteProvider struct {
	backend client.Client
	store   storage.KeyValueStore
	key     string
	log     logging.Logger

	notifier
}

var _ Provider = (*RemoteProvider)(nil)

func NewRemoteProvider(backend client.Client, store storage.KeyValueStore, ns storage.Namespace, log logging.Logger) *RemoteProvider {
	p := &RemoteProvider{
		backend: backend,
		store:   store,
		key:     ns.Global(authKeyName),
		log:     log.With("module", "identity"),
	}
	backend.OnTokensChanged(p.tokensChanged)
	return p
}

// Resolve restores a persisted session and confirms it with the backend.
// When the backend cannot be reached the persisted principal is trusted so
// the agenda stays usable from its local snapshots.
func (p *RemoteProvider) Resolve(ctx context.Context) error {
	s, err := p.load(ctx)
	if err != nil {
		p.emit(ctx, nil)
		return err
	}
	if s == nil || s.AccessToken == "" {
		p.emit(ctx, nil)
		return nil
	}

	p.backend.SetTokens(s.Tokens)
	principal, err := p.backend.Whoami(ctx)
	switch {
	case err == nil:
		p.save(ctx, session{Tokens: p.backend.Tokens(), Principal: &principal})
		p.emit(ctx, &principal)
		return nil
	case errors.Is(err, common.ErrRemoteUnavailable) && s.Principal != nil:
		p.log.Warn(ctx, "backend unreachable, resuming persisted session", "owner", s.Principal.OwnerID)
		p.emit(ctx, s.Principal)
		return nil
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrRefreshTokenExpired):
		p.log.Info(ctx, "persisted session rejected")
		p.clear(ctx)
		p.emit(ctx, nil)
		return nil
	default:
		p.emit(ctx, nil)
		return fmt.Errorf("resolve identity: %w", err)
	}
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (models.Principal, error) {
	principal, err := p.backend.SignIn(ctx, email, password)
	if err != nil {
		return models.Principal{}, err
	}
	p.save(ctx, session{Tokens: p.backend.Tokens(), Principal: &principal})
	p.emit(ctx, &principal)
	return principal, nil
}

// SignUp registers and signs the new user in, returning the owner id.
func (p *RemoteProvider) SignUp(ctx context.Context, email, password, displayName, lab string) (string, error) {
	principal, err := p.backend.SignUp(ctx, email, password, displayName, lab)
	if err != nil {
		return "", err
	}
	p.save(ctx, session{Tokens: p.backend.Tokens(), Principal: &principal})
	p.emit(ctx, &principal)
	return principal.OwnerID, nil
}

// SignOut always ends the local session; the backend error is returned for
// logging only.
func (p *RemoteProvider) SignOut(ctx context.Context) error {
	err := p.backend.SignOut(ctx)
	p.clear(ctx)
	p.emit(ctx, nil)
	return err
}

// Expire ends the session after the backend refused our credentials.
func (p *RemoteProvider) Expire(ctx context.Context) {
	p.backend.SetTokens(client.Tokens{})
	p.clear(ctx)
	p.emit(ctx, nil)
}

// UpdateProfile changes the display name and lab of the signed-in user.
func (p *RemoteProvider) UpdateProfile(ctx context.Context, displayName, lab string) (models.Principal, error) {
	principal, err := p.backend.UpdateProfile(ctx, displayName, lab)
	if err != nil {
		return models.Principal{}, err
	}
	p.save(ctx, session{Tokens: p.backend.Tokens(), Principal: &principal})
	p.refresh(principal)
	return principal, nil
}

// ChangePassword keeps the current session signed in.
func (p *RemoteProvider) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return p.backend.ChangePassword(ctx, currentPassword, newPassword)
}

func (p *RemoteProvider) SendPasswordReset(ctx context.Context, email string) error {
	return p.backend.SendPasswordReset(ctx, email)
}

func (p *RemoteProvider) ResetPassword(ctx context.Context, token, newPassword string) error {
	return p.backend.ResetPassword(ctx, token, newPassword)
}

// tokensChanged keeps the persisted pair in step with refreshes.
func (p *RemoteProvider) tokensChanged(t client.Tokens) {
	ctx := context.Background()
	if t.AccessToken == "" {
		return
	}
	s, err := p.load(ctx)
	if err != nil || s == nil {
		s = &session{}
	}
	s.Tokens = t
	p.save(ctx, *s)
}

func (p *RemoteProvider) load(ctx context.Context) (*session, error) {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		p.log.Warn(ctx, "discarding unreadable session", "error", err)
		return nil, nil
	}
	return &s, nil
}

func (p *RemoteProvider) save(ctx context.Context, s session) {
	raw, err := json.Marshal(s)
	if err == nil {
		err = p.store.Set(ctx, p.key, raw)
	}
	if err != nil {
		p.log.Error(ctx, "failed to persist session", "error", err)
	}
}

func (p *RemoteProvider) clear(ctx context.Context) {
	if err := p.store.Remove(ctx, p.key); err != nil {
		p.log.Error(ctx, "failed to remove session", "error", err)
	}
}
