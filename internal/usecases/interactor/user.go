package interactor

import (
	"context"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	apperrors "github.com/avelinsk/txmon/internal/errors"
)

// UserInteractor resolves authenticated caller profiles.
type UserInteractor struct {
	userRepository repositories.UserRepository
}

func NewUserInteractor(userRepository repositories.UserRepository) *UserInteractor {
	return &UserInteractor{userRepository: userRepository}
}

// GetByID returns the user profile, or (nil, nil) when the id is unknown so
// the auth middleware can reject the credential.
func (u *UserInteractor) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := u.userRepository.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("get user", err)
	}
	return user, nil
}
