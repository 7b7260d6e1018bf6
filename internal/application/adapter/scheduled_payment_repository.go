package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// ScheduledPaymentFilter defines filter options for listing scheduled payments.
type ScheduledPaymentFilter struct {
	UserID         uuid.UUID
	Status         *entity.ScheduledPaymentStatus
	DueFrom        *time.Time
	DueTo          *time.Time
	PublicBurden   *bool
	ReminderUnsent bool
}

// CompleteScheduledPaymentParams carries the values a completion writes.
type CompleteScheduledPaymentParams struct {
	PaymentID    uuid.UUID
	UserID       uuid.UUID
	ActualAmount *decimal.Decimal
	Date         time.Time
	CompletedAt  time.Time
}

// ScheduledPaymentRepository defines the interface for scheduled payment persistence operations.
type ScheduledPaymentRepository interface {
	// Create creates a new scheduled payment.
	Create(ctx context.Context, payment *entity.ScheduledPayment) error

	// FindByID retrieves a scheduled payment by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ScheduledPayment, error)

	// FindByFilter lists scheduled payments with their categories ordered by due date.
	FindByFilter(ctx context.Context, filter ScheduledPaymentFilter) ([]*entity.ScheduledPaymentWithCategory, error)

	// Update saves changes to a scheduled payment.
	Update(ctx context.Context, payment *entity.ScheduledPayment) error

	// Delete removes a scheduled payment.
	Delete(ctx context.Context, id uuid.UUID) error

	// Complete atomically creates the companion transaction and marks the payment completed.
	// Either both writes happen or neither does. Returns ErrScheduledPaymentCompleted when the
	// payment is no longer pending at the time of the write.
	Complete(ctx context.Context, params CompleteScheduledPaymentParams) (*entity.ScheduledPayment, *entity.Transaction, error)

	// MarkReminded stamps reminder_sent_at on the given payments.
	MarkReminded(ctx context.Context, ids []uuid.UUID, at time.Time) error
}
