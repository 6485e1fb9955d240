package client

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/remote"
)

// Tokens is the credential pair issued by the backend.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client is everything the agenda needs from the backend.
type Client interface {
	remote.DocumentStore

	SignUp(ctx context.Context, email, password, displayName, lab string) (models.Principal, error)
	SignIn(ctx context.Context, email, password string) (models.Principal, error)
	SignOut(ctx context.Context) error
	Whoami(ctx context.Context) (models.Principal, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, displayName, lab string) (models.Principal, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	Tokens() Tokens
	SetTokens(t Tokens)
	OnTokensChanged(fn func(Tokens))
	Close() error
}
