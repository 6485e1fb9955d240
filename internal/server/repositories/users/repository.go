// Package users declares the account repository of the identity service.
package users

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills ID and CreatedAt. A taken email
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	// UpdateProfile changes the display name and lab and returns the
	// updated user.
	UpdateProfile(ctx context.Context, id, displayName, lab string) (*models.User, error)
}
