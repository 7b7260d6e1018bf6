package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// GetAnalyticsInput represents the input for the period analytics.
type GetAnalyticsInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// GetAnalyticsOutput represents the aggregated analytics of a period.
type GetAnalyticsOutput struct {
	StartDate time.Time
	EndDate   time.Time
	Result    AggregationResult
}

// GetAnalyticsUseCase fetches the views of a closed date interval and aggregates them.
type GetAnalyticsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetAnalyticsUseCase creates a new GetAnalyticsUseCase instance.
func NewGetAnalyticsUseCase(transactionRepo adapter.TransactionRepository) *GetAnalyticsUseCase {
	return &GetAnalyticsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute aggregates the user's transactions between StartDate and EndDate, both inclusive.
func (uc *GetAnalyticsUseCase) Execute(ctx context.Context, input GetAnalyticsInput) (*GetAnalyticsOutput, error) {
	if input.StartDate.IsZero() {
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeMissingStartDate,
			"start_date is required",
			domainerror.ErrMissingStartDate,
		)
	}
	if input.EndDate.IsZero() {
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeMissingEndDate,
			"end_date is required",
			domainerror.ErrMissingEndDate,
		)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeInvalidDateRange,
			"end_date must not be before start_date",
			domainerror.ErrInvalidDateRange,
		)
	}

	views, err := uc.transactionRepo.FindViews(ctx, adapter.TransactionFilter{
		UserID:    input.UserID,
		StartDate: &input.StartDate,
		EndDate:   &input.EndDate,
	})
	if err != nil {
		slog.Error("Failed to fetch transactions for analytics",
			"userID", input.UserID,
			"startDate", input.StartDate.Format(DayLayout),
			"endDate", input.EndDate.Format(DayLayout),
			"error", err,
		)
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeAnalyticsInternalError,
			"failed to load transactions",
			err,
		)
	}

	return &GetAnalyticsOutput{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Result:    Aggregate(views),
	}, nil
}
