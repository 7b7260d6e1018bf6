// Package scheduledpayment contains use cases for planned future payments.
package scheduledpayment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// MaxMemoLength is the maximum allowed length for a payment memo.
const MaxMemoLength = 255

func notFound() error {
	return domainerror.NewScheduledPaymentError(
		domainerror.ErrCodeScheduledPaymentNotFound,
		"scheduled payment not found",
		domainerror.ErrScheduledPaymentNotFound,
	)
}

func alreadyCompleted() error {
	return domainerror.NewScheduledPaymentError(
		domainerror.ErrCodeScheduledPaymentCompleted,
		"scheduled payment is already completed",
		domainerror.ErrScheduledPaymentCompleted,
	)
}

// findPendingPayment loads a payment owned by userID and refuses completed ones.
func findPendingPayment(ctx context.Context, repo adapter.ScheduledPaymentRepository, id, userID uuid.UUID) (*entity.ScheduledPayment, error) {
	payment, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrScheduledPaymentNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("failed to find scheduled payment: %w", err)
	}
	if payment.UserID != userID {
		return nil, notFound()
	}
	if !payment.IsPending() {
		return nil, alreadyCompleted()
	}
	return payment, nil
}

// findExpenseCategory loads the category and checks it is an expense category of userID.
func findExpenseCategory(ctx context.Context, repo adapter.CategoryRepository, id, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewScheduledPaymentError(
				domainerror.ErrCodeScheduledCategoryInvalid,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category.UserID != userID {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeScheduledCategoryInvalid,
			"category does not belong to user",
			domainerror.ErrCategoryNotOwnedByUser,
		)
	}
	if !category.IsExpense() {
		return nil, domainerror.NewScheduledPaymentError(
			domainerror.ErrCodeScheduledCategoryNotExpense,
			"scheduled payments require an expense category",
			domainerror.ErrScheduledPaymentCategoryNotExpense,
		)
	}
	return category, nil
}
