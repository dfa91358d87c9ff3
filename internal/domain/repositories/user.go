package repositories

import (
	"context"

	"github.com/avelinsk/txmon/internal/domain/models"
)

// UserRepository looks up profiles for authenticated callers. Rows are
// written by the external auth collaborator during the OAuth handshake.
type UserRepository interface {
	// GetByID returns (nil, nil) when no user with the id exists.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
