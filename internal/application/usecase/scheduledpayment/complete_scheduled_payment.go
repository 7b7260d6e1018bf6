package scheduledpayment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// CompleteScheduledPaymentInput represents the input for paying a scheduled payment.
type CompleteScheduledPaymentInput struct {
	PaymentID    uuid.UUID
	UserID       uuid.UUID
	ActualAmount *decimal.Decimal // Defaults to the estimated amount
	Date         *time.Time       // Defaults to today
}

// CompleteScheduledPaymentOutput carries the completed payment and the transaction it created.
type CompleteScheduledPaymentOutput struct {
	Payment     *entity.ScheduledPayment
	Transaction *entity.Transaction
}

// CompleteScheduledPaymentUseCase records a scheduled payment as paid.
type CompleteScheduledPaymentUseCase struct {
	paymentRepo adapter.ScheduledPaymentRepository
	clock       adapter.Clock
}

// NewCompleteScheduledPaymentUseCase creates a new CompleteScheduledPaymentUseCase instance.
func NewCompleteScheduledPaymentUseCase(
	paymentRepo adapter.ScheduledPaymentRepository,
	clock adapter.Clock,
) *CompleteScheduledPaymentUseCase {
	return &CompleteScheduledPaymentUseCase{
		paymentRepo: paymentRepo,
		clock:       clock,
	}
}

// Execute creates the companion transaction and marks the payment completed in one
// atomic repository call. The pending check here gives a fast answer; the repository
// repeats it inside its database transaction.
func (uc *CompleteScheduledPaymentUseCase) Execute(ctx context.Context, input CompleteScheduledPaymentInput) (*CompleteScheduledPaymentOutput, error) {
	if input.ActualAmount != nil && !input.ActualAmount.IsPositive() {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeInvalidScheduledAmount,
			"actual amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if _, err := findPendingPayment(ctx, uc.paymentRepo, input.PaymentID, input.UserID); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if input.Date != nil {
		date = *input.Date
	}

	payment, transaction, err := uc.paymentRepo.Complete(ctx, adapter.CompleteScheduledPaymentParams{
		PaymentID:    input.PaymentID,
		UserID:       input.UserID,
		ActualAmount: input.ActualAmount,
		Date:         date,
		CompletedAt:  now,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrScheduledPaymentCompleted):
			return nil, alreadyCompleted()
		case errors.Is(err, domainerror.ErrScheduledPaymentNotFound):
			return nil, notFound()
		}
		slog.Error("Failed to complete scheduled payment",
			"paymentID", input.PaymentID,
			"userID", input.UserID,
			"error", err,
		)
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeScheduledInternalError,
			"failed to complete scheduled payment",
			err,
		)
	}

	slog.Info("Scheduled payment completed",
		"paymentID", payment.ID,
		"transactionID", transaction.ID,
		"amount", transaction.Amount.String(),
	)

	return &CompleteScheduledPaymentOutput{
		Payment:     payment,
		Transaction: transaction,
	}, nil
}
