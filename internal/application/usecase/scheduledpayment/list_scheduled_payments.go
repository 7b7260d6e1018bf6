package scheduledpayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/application/usecase/analytics"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// ListScheduledPaymentsInput represents the input for listing scheduled payments.
type ListScheduledPaymentsInput struct {
	UserID  uuid.UUID
	Status  *entity.ScheduledPaymentStatus
	DueFrom *time.Time
	DueTo   *time.Time
}

// ListScheduledPaymentsOutput represents the output of listing scheduled payments.
type ListScheduledPaymentsOutput struct {
	Payments []*ScheduledPaymentOutput
}

// ListScheduledPaymentsUseCase lists scheduled payments ordered by due date.
type ListScheduledPaymentsUseCase struct {
	paymentRepo adapter.ScheduledPaymentRepository
}

// NewListScheduledPaymentsUseCase creates a new ListScheduledPaymentsUseCase instance.
func NewListScheduledPaymentsUseCase(paymentRepo adapter.ScheduledPaymentRepository) *ListScheduledPaymentsUseCase {
	return &ListScheduledPaymentsUseCase{
		paymentRepo: paymentRepo,
	}
}

// Execute lists the user's scheduled payments.
func (uc *ListScheduledPaymentsUseCase) Execute(ctx context.Context, input ListScheduledPaymentsInput) (*ListScheduledPaymentsOutput, error) {
	if input.Status != nil &&
		*input.Status != entity.ScheduledPaymentStatusPending &&
		*input.Status != entity.ScheduledPaymentStatusCompleted {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeMissingScheduledFields,
			"status must be 'pending' or 'completed'",
			nil,
		)
	}

	rows, err := uc.paymentRepo.FindByFilter(ctx, adapter.ScheduledPaymentFilter{
		UserID:  input.UserID,
		Status:  input.Status,
		DueFrom: input.DueFrom,
		DueTo:   input.DueTo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled payments: %w", err)
	}

	payments := make([]*ScheduledPaymentOutput, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, &ScheduledPaymentOutput{Payment: row.Payment, Category: row.Category})
	}

	return &ListScheduledPaymentsOutput{Payments: payments}, nil
}

// GetPublicBurdenSummaryInput represents the input for the public burden summary.
type GetPublicBurdenSummaryInput struct {
	UserID  uuid.UUID
	DueFrom *time.Time
	DueTo   *time.Time
}

// GetPublicBurdenSummaryUseCase totals the public burden payments of a user.
type GetPublicBurdenSummaryUseCase struct {
	paymentRepo adapter.ScheduledPaymentRepository
}

// NewGetPublicBurdenSummaryUseCase creates a new GetPublicBurdenSummaryUseCase instance.
func NewGetPublicBurdenSummaryUseCase(paymentRepo adapter.ScheduledPaymentRepository) *GetPublicBurdenSummaryUseCase {
	return &GetPublicBurdenSummaryUseCase{
		paymentRepo: paymentRepo,
	}
}

// Execute loads flagged payments and summarises them.
func (uc *GetPublicBurdenSummaryUseCase) Execute(ctx context.Context, input GetPublicBurdenSummaryInput) (*analytics.PublicBurdenSummary, error) {
	flagged := true
	rows, err := uc.paymentRepo.FindByFilter(ctx, adapter.ScheduledPaymentFilter{
		UserID:       input.UserID,
		DueFrom:      input.DueFrom,
		DueTo:        input.DueTo,
		PublicBurden: &flagged,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load public burden payments: %w", err)
	}

	payments := make([]*entity.ScheduledPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.Payment)
	}

	summary := analytics.SummarizePublicBurden(payments)
	return &summary, nil
}
