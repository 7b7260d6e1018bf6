package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

const (
	// DefaultMonths is the series length used when the caller does not ask for one.
	DefaultMonths = 12
	// MaxMonths bounds the series length.
	MaxMonths = 120
)

// GetMonthlySeriesInput represents the input for the monthly stacked series.
type GetMonthlySeriesInput struct {
	UserID        uuid.UUID
	Months        int
	ReferenceDate *time.Time
}

// GetMonthlySeriesOutput lists the expense category names in display order and the buckets.
type GetMonthlySeriesOutput struct {
	CategoryNames []string
	Buckets       []MonthlyBucket
}

// GetMonthlySeriesUseCase builds the per-month income and expense-by-category series.
type GetMonthlySeriesUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
	clock           adapter.Clock
}

// NewGetMonthlySeriesUseCase creates a new GetMonthlySeriesUseCase instance.
func NewGetMonthlySeriesUseCase(
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
	clock adapter.Clock,
) *GetMonthlySeriesUseCase {
	return &GetMonthlySeriesUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		clock:           clock,
	}
}

// Execute loads expense categories and the window's transactions concurrently.
func (uc *GetMonthlySeriesUseCase) Execute(ctx context.Context, input GetMonthlySeriesInput) (*GetMonthlySeriesOutput, error) {
	months := input.Months
	if months == 0 {
		months = DefaultMonths
	}
	if months < 0 || months > MaxMonths {
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeInvalidMonths,
			"months must be between 1 and 120",
			domainerror.ErrInvalidMonths,
		)
	}

	reference := uc.clock.Now()
	if input.ReferenceDate != nil {
		reference = *input.ReferenceDate
	}
	from, to := SeriesBounds(months, reference)

	var (
		categories []*entity.Category
		views      []entity.TransactionView
	)
	expenseType := entity.CategoryTypeExpense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = uc.categoryRepo.FindByUser(gctx, input.UserID, &expenseType)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = uc.transactionRepo.FindViews(gctx, adapter.TransactionFilter{
			UserID:    input.UserID,
			StartDate: &from,
			EndDate:   &to,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("Failed to load monthly series data",
			"userID", input.UserID,
			"months", months,
			"error", err,
		)
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeAnalyticsInternalError,
			"failed to load monthly series",
			err,
		)
	}

	names := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		names = append(names, c.Name)
	}

	return &GetMonthlySeriesOutput{
		CategoryNames: names,
		Buckets:       BuildMonthlySeries(views, names, months, reference),
	}, nil
}
