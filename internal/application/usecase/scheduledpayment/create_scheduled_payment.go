package scheduledpayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// CreateScheduledPaymentInput represents the input for scheduling a payment.
type CreateScheduledPaymentInput struct {
	UserID          uuid.UUID
	CategoryID      uuid.UUID
	EstimatedAmount decimal.Decimal
	DueDate         time.Time
	Memo            string
}

// ScheduledPaymentOutput is a scheduled payment with its category.
type ScheduledPaymentOutput struct {
	Payment  *entity.ScheduledPayment
	Category *entity.Category
}

// CreateScheduledPaymentUseCase handles scheduling a payment.
type CreateScheduledPaymentUseCase struct {
	paymentRepo  adapter.ScheduledPaymentRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateScheduledPaymentUseCase creates a new CreateScheduledPaymentUseCase instance.
func NewCreateScheduledPaymentUseCase(
	paymentRepo adapter.ScheduledPaymentRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateScheduledPaymentUseCase {
	return &CreateScheduledPaymentUseCase{
		paymentRepo:  paymentRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute creates a pending payment and snapshots the category's public burden flag.
func (uc *CreateScheduledPaymentUseCase) Execute(ctx context.Context, input CreateScheduledPaymentInput) (*ScheduledPaymentOutput, error) {
	if !input.EstimatedAmount.IsPositive() {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeInvalidScheduledAmount,
			"estimated amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if input.DueDate.IsZero() {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeInvalidDueDate,
			"due date is required",
			nil,
		)
	}
	if len(input.Memo) > MaxMemoLength {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeMissingScheduledFields,
			fmt.Sprintf("memo must not exceed %d characters", MaxMemoLength),
			nil,
		)
	}

	category, err := findExpenseCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	payment := entity.NewScheduledPayment(
		input.UserID,
		category.ID,
		input.EstimatedAmount,
		input.DueDate,
		input.Memo,
		category.IsPublicBurden,
	)

	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create scheduled payment: %w", err)
	}

	return &ScheduledPaymentOutput{Payment: payment, Category: category}, nil
}
