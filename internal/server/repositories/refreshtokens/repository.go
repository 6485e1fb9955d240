package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is a no-op for an unknown token.
	Delete(ctx context.Context, token string) error
	// DeleteByUser revokes every session of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
