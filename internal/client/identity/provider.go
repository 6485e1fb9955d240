// Package identity resolves who is signed in and tells listeners when that
// changes.
//
// RemoteProvider keeps the backend's token pair, together with the last
// resolved principal, under a global (non-owner) storage key so a restart
// can resume the session. Listeners receive exactly one event per
// transition: a principal on sign-in, nil on sign-out.
package identity

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
)

// Listener receives the current principal, or nil when nobody is signed in.
type Listener func(ctx context.Context, p *models.Principal)

type Provider interface {
	SignIn(ctx context.Context, email, password string) (models.Principal, error)
	SignUp(ctx context.Context, email, password, displayName, lab string) (string, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, displayName, lab string) (models.Principal, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Resolve determines the initial identity and delivers it to listeners.
	Resolve(ctx context.Context) error
	OnIdentityChange(fn Listener) (unsubscribe func())
	Current() *models.Principal
}
