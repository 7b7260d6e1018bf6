package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// UpdateBalanceInput sets or clears the balance starting point. Both fields
// must be provided together or both omitted; omitting both clears the setting.
type UpdateBalanceInput struct {
	UserID           uuid.UUID
	InitialBalance   *decimal.Decimal
	BalanceStartDate *time.Time
}

// UpdateBalanceUseCase stores the user's initial balance and its start date.
type UpdateBalanceUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateBalanceUseCase creates a new UpdateBalanceUseCase instance.
func NewUpdateBalanceUseCase(userRepo adapter.UserRepository) *UpdateBalanceUseCase {
	return &UpdateBalanceUseCase{userRepo: userRepo}
}

// Execute applies the balance setting.
func (uc *UpdateBalanceUseCase) Execute(ctx context.Context, input UpdateBalanceInput) (*entity.User, error) {
	if (input.InitialBalance == nil) != (input.BalanceStartDate == nil) {
		return nil, domainerror.NewUserError(
			domainerror.ErrCodeInvalidBalanceSetting,
			"initial balance and balance start date must be set together",
			domainerror.ErrInvalidInitialBalance,
		)
	}

	user, err := findUser(ctx, uc.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	user.InitialBalance = input.InitialBalance
	user.BalanceStartDate = nil
	if input.BalanceStartDate != nil {
		d := input.BalanceStartDate.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		user.BalanceStartDate = &day
	}
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to update balance settings", "userID", input.UserID, "error", err)
		return nil, domainerror.NewUserError(
			domainerror.ErrCodeUserInternalError,
			"failed to update user",
			err,
		)
	}

	return user, nil
}

// UpdatePreferencesInput toggles optional notifications.
type UpdatePreferencesInput struct {
	UserID           uuid.UUID
	PaymentReminders bool
}

// UpdatePreferencesUseCase stores notification preferences.
type UpdatePreferencesUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdatePreferencesUseCase creates a new UpdatePreferencesUseCase instance.
func NewUpdatePreferencesUseCase(userRepo adapter.UserRepository) *UpdatePreferencesUseCase {
	return &UpdatePreferencesUseCase{userRepo: userRepo}
}

// Execute applies the preferences.
func (uc *UpdatePreferencesUseCase) Execute(ctx context.Context, input UpdatePreferencesInput) (*entity.User, error) {
	user, err := findUser(ctx, uc.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	user.PaymentReminders = input.PaymentReminders
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, domainerror.NewUserError(
			domainerror.ErrCodeUserInternalError,
			"failed to update user",
			err,
		)
	}
	return user, nil
}
