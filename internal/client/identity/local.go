package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/storage"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/google/uuid"
)

// ErrNotSupported is returned by LocalProvider for password and mail flows.
var ErrNotSupported = errors.New("not supported in offline mode")

// ownerSpace derives stable offline owner ids from e-mail addresses.
var ownerSpace = uuid.MustParse("8f1c1f7e-5b7a-4d55-9f63-2b1f0f0c9a11")

// LocalProvider is the offline identity: any e-mail signs in without a
// password check and maps to a stable owner id.
type LocalProvider struct {
	store storage.KeyValueStore
	key   string
	log   logging.Logger

	notifier
}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider(store storage.KeyValueStore, ns storage.Namespace, log logging.Logger) *LocalProvider {
	return &LocalProvider{
		store: store,
		key:   ns.Global(authKeyName),
		log:   log.With("module", "identity"),
	}
}

// OwnerIDFor is the offline owner id of email.
func OwnerIDFor(email string) string {
	return uuid.NewSHA1(ownerSpace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

func (p *LocalProvider) Resolve(ctx context.Context) error {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, common.ErrNotFound) {
		p.emit(ctx, nil)
		return nil
	}
	if err != nil {
		p.emit(ctx, nil)
		return fmt.Errorf("resolve identity: %w", err)
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil || s.Principal == nil {
		p.emit(ctx, nil)
		return nil
	}
	p.emit(ctx, s.Principal)
	return nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, _ string) (models.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Principal{}, common.NewValidationError("email", "obrigatório")
	}
	principal := models.Principal{OwnerID: OwnerIDFor(email), Email: email, DisplayName: email}
	if err := p.persist(ctx, principal); err != nil {
		return models.Principal{}, err
	}
	p.emit(ctx, &principal)
	return principal, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, _, displayName, lab string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", common.NewValidationError("email", "obrigatório")
	}
	principal := models.Principal{OwnerID: OwnerIDFor(email), Email: email, DisplayName: email, Lab: strings.TrimSpace(lab)}
	if name := strings.TrimSpace(displayName); name != "" {
		principal.DisplayName = name
	}
	if err := p.persist(ctx, principal); err != nil {
		return "", err
	}
	p.emit(ctx, &principal)
	return principal.OwnerID, nil
}

// UpdateProfile rewrites the persisted principal of the signed-in user.
func (p *LocalProvider) UpdateProfile(ctx context.Context, displayName, lab string) (models.Principal, error) {
	current := p.Current()
	if current == nil {
		return models.Principal{}, common.ErrUnauthenticated
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.Principal{}, common.NewValidationError("displayName", "obrigatório")
	}
	principal := *current
	principal.DisplayName = displayName
	principal.Lab = strings.TrimSpace(lab)
	if err := p.persist(ctx, principal); err != nil {
		return models.Principal{}, err
	}
	p.refresh(principal)
	return principal, nil
}

func (p *LocalProvider) ChangePassword(context.Context, string, string) error {
	return ErrNotSupported
}

func (p *LocalProvider) persist(ctx context.Context, principal models.Principal) error {
	raw, err := json.Marshal(session{Principal: &principal})
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.key, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	err := p.store.Remove(ctx, p.key)
	p.emit(ctx, nil)
	return err
}

func (p *LocalProvider) SendPasswordReset(context.Context, string) error {
	return ErrNotSupported
}

func (p *LocalProvider) ResetPassword(context.Context, string, string) error {
	return ErrNotSupported
}
