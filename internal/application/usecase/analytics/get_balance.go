package analytics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// GetBalanceInput represents the input for the current balance.
type GetBalanceInput struct {
	UserID uuid.UUID
}

// GetBalanceOutput carries the balance when the user configured a starting point.
type GetBalanceOutput struct {
	Configured bool
	Balance    BalanceResult
}

// GetBalanceUseCase computes the running balance from the user's balance settings.
type GetBalanceUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase instance.
func NewGetBalanceUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute returns Configured=false without touching transactions when the user has no
// initial balance or no start date.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeProfileNotFound,
				"user not found",
				err,
			)
		}
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeAnalyticsInternalError,
			"failed to load user",
			err,
		)
	}

	if !user.HasBalanceSettings() {
		return &GetBalanceOutput{Configured: false}, nil
	}

	views, err := uc.transactionRepo.FindViews(ctx, adapter.TransactionFilter{
		UserID:    input.UserID,
		StartDate: user.BalanceStartDate,
	})
	if err != nil {
		slog.Error("Failed to fetch transactions for balance",
			"userID", input.UserID,
			"error", err,
		)
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeAnalyticsInternalError,
			"failed to load transactions",
			err,
		)
	}

	balance, ok := CurrentBalance(user.InitialBalance, user.BalanceStartDate, views)
	return &GetBalanceOutput{Configured: ok, Balance: balance}, nil
}
