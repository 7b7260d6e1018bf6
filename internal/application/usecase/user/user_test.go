package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter/adaptertest"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

func userCode(t *testing.T, err error) domainerror.UserErrorCode {
	t.Helper()
	var userErr *domainerror.UserError
	require.ErrorAs(t, err, &userErr)
	return userErr.Code
}

func TestGetProfileUseCase(t *testing.T) {
	ctx := context.Background()
	store := adaptertest.NewStore()
	u := store.AddUser(entity.NewUser("taro@example.com", "Taro", "hash"))
	uc := NewGetProfileUseCase(store.UserRepository())

	t.Run("found", func(t *testing.T) {
		out, err := uc.Execute(ctx, GetProfileInput{UserID: u.ID})
		require.NoError(t, err)
		assert.Equal(t, "Taro", out.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, GetProfileInput{UserID: uuid.New()})
		assert.Equal(t, domainerror.ErrCodeProfileNotFound, userCode(t, err))
	})

	t.Run("storage failure", func(t *testing.T) {
		broken := adaptertest.NewStore()
		broken.Err = errors.New("db down")
		_, err := NewGetProfileUseCase(broken.UserRepository()).Execute(ctx, GetProfileInput{UserID: u.ID})
		assert.Equal(t, domainerror.ErrCodeUserInternalError, userCode(t, err))
	})
}

func TestUpdateBalanceUseCase(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(300000)
	start := time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC)

	t.Run("sets both fields and truncates the date", func(t *testing.T) {
		store := adaptertest.NewStore()
		u := store.AddUser(entity.NewUser("taro@example.com", "Taro", "hash"))
		uc := NewUpdateBalanceUseCase(store.UserRepository())

		out, err := uc.Execute(ctx, UpdateBalanceInput{UserID: u.ID, InitialBalance: &amount, BalanceStartDate: &start})

		require.NoError(t, err)
		assert.True(t, out.HasBalanceSettings())
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *store.Users[u.ID].BalanceStartDate)
	})

	t.Run("clears when both omitted", func(t *testing.T) {
		store := adaptertest.NewStore()
		seeded := entity.NewUser("taro@example.com", "Taro", "hash")
		seeded.InitialBalance = &amount
		seeded.BalanceStartDate = &start
		u := store.AddUser(seeded)

		out, err := NewUpdateBalanceUseCase(store.UserRepository()).Execute(ctx, UpdateBalanceInput{UserID: u.ID})

		require.NoError(t, err)
		assert.False(t, out.HasBalanceSettings())
	})

	t.Run("rejects one without the other", func(t *testing.T) {
		store := adaptertest.NewStore()
		u := store.AddUser(entity.NewUser("taro@example.com", "Taro", "hash"))

		_, err := NewUpdateBalanceUseCase(store.UserRepository()).Execute(ctx, UpdateBalanceInput{UserID: u.ID, InitialBalance: &amount})

		assert.Equal(t, domainerror.ErrCodeInvalidBalanceSetting, userCode(t, err))
		assert.ErrorIs(t, err, domainerror.ErrInvalidInitialBalance)
	})
}

func TestUpdatePreferencesUseCase(t *testing.T) {
	ctx := context.Background()
	store := adaptertest.NewStore()
	u := store.AddUser(entity.NewUser("taro@example.com", "Taro", "hash"))

	out, err := NewUpdatePreferencesUseCase(store.UserRepository()).Execute(ctx, UpdatePreferencesInput{UserID: u.ID})

	require.NoError(t, err)
	assert.False(t, out.PaymentReminders)
	assert.False(t, store.Users[u.ID].PaymentReminders)
}
