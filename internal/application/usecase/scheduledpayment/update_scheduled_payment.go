package scheduledpayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// UpdateScheduledPaymentInput represents the input for editing a pending payment.
// Nil fields are left unchanged.
type UpdateScheduledPaymentInput struct {
	PaymentID       uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	EstimatedAmount *decimal.Decimal
	DueDate         *time.Time
	Memo            *string
}

// UpdateScheduledPaymentUseCase handles editing a pending payment.
type UpdateScheduledPaymentUseCase struct {
	paymentRepo  adapter.ScheduledPaymentRepository
	categoryRepo adapter.CategoryRepository
}

// NewUpdateScheduledPaymentUseCase creates a new UpdateScheduledPaymentUseCase instance.
func NewUpdateScheduledPaymentUseCase(
	paymentRepo adapter.ScheduledPaymentRepository,
	categoryRepo adapter.CategoryRepository,
) *UpdateScheduledPaymentUseCase {
	return &UpdateScheduledPaymentUseCase{
		paymentRepo:  paymentRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute edits the payment. Completed payments are refused, and the public burden
// flag is copied again from the (possibly new) category.
func (uc *UpdateScheduledPaymentUseCase) Execute(ctx context.Context, input UpdateScheduledPaymentInput) (*ScheduledPaymentOutput, error) {
	payment, err := findPendingPayment(ctx, uc.paymentRepo, input.PaymentID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.EstimatedAmount != nil {
		if !input.EstimatedAmount.IsPositive() {
			return nil, domainerror.NewScheduledPaymentError(
				domainerror.ErrCodeInvalidScheduledAmount,
				"estimated amount must be greater than zero",
				domainerror.ErrInvalidTransactionAmount,
			)
		}
		payment.EstimatedAmount = *input.EstimatedAmount
	}
	if input.DueDate != nil {
		payment.DueDate = *input.DueDate
	}
	if input.Memo != nil {
		if len(*input.Memo) > MaxMemoLength {
			return nil, domainerror.NewScheduledPaymentError(
				domainerror.ErrCodeMissingScheduledFields,
				fmt.Sprintf("memo must not exceed %d characters", MaxMemoLength),
				nil,
			)
		}
		payment.Memo = *input.Memo
	}

	categoryID := payment.CategoryID
	if input.CategoryID != nil {
		categoryID = *input.CategoryID
	}
	category, err := findExpenseCategory(ctx, uc.categoryRepo, categoryID, input.UserID)
	if err != nil {
		return nil, err
	}
	payment.CategoryID = category.ID
	payment.IsPublicBurden = category.IsPublicBurden
	payment.UpdatedAt = time.Now().UTC()

	if err := uc.paymentRepo.Update(ctx, payment); err != nil {
		if errors.Is(err, domainerror.ErrScheduledPaymentCompleted) {
			return nil, alreadyCompleted()
		}
		return nil, fmt.Errorf("failed to update scheduled payment: %w", err)
	}

	return &ScheduledPaymentOutput{Payment: payment, Category: category}, nil
}
