package scheduledpayment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// DeleteScheduledPaymentInput represents the input for deleting a pending payment.
type DeleteScheduledPaymentInput struct {
	PaymentID uuid.UUID
	UserID    uuid.UUID
}

// DeleteScheduledPaymentUseCase handles deleting a pending payment.
type DeleteScheduledPaymentUseCase struct {
	paymentRepo adapter.ScheduledPaymentRepository
}

// NewDeleteScheduledPaymentUseCase creates a new DeleteScheduledPaymentUseCase instance.
func NewDeleteScheduledPaymentUseCase(paymentRepo adapter.ScheduledPaymentRepository) *DeleteScheduledPaymentUseCase {
	return &DeleteScheduledPaymentUseCase{
		paymentRepo: paymentRepo,
	}
}

// Execute deletes the payment unless it has been completed.
func (uc *DeleteScheduledPaymentUseCase) Execute(ctx context.Context, input DeleteScheduledPaymentInput) error {
	if _, err := findPendingPayment(ctx, uc.paymentRepo, input.PaymentID, input.UserID); err != nil {
		return err
	}

	if err := uc.paymentRepo.Delete(ctx, input.PaymentID); err != nil {
		if errors.Is(err, domainerror.ErrScheduledPaymentCompleted) {
			return alreadyCompleted()
		}
		return fmt.Errorf("failed to delete scheduled payment: %w", err)
	}

	return nil
}
