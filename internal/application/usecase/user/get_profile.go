// Package user contains profile and balance-setting use cases.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// GetProfileInput represents the input for reading the caller's profile.
type GetProfileInput struct {
	UserID uuid.UUID
}

// GetProfileUseCase returns the authenticated user.
type GetProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewGetProfileUseCase creates a new GetProfileUseCase instance.
func NewGetProfileUseCase(userRepo adapter.UserRepository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// Execute loads the profile.
func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*entity.User, error) {
	return findUser(ctx, uc.userRepo, input.UserID)
}

func findUser(ctx context.Context, repo adapter.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeProfileNotFound,
				"user not found",
				err,
			)
		}
		return nil, domainerror.NewUserError(
			domainerror.ErrCodeUserInternalError,
			"failed to load user",
			err,
		)
	}
	return user, nil
}
