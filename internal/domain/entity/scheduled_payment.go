package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduledPaymentStatus represents the lifecycle state of a scheduled payment.
type ScheduledPaymentStatus string

const (
	ScheduledPaymentStatusPending   ScheduledPaymentStatus = "pending"
	ScheduledPaymentStatusCompleted ScheduledPaymentStatus = "completed"
)

// ScheduledPayment is a planned future expense. Completing it creates a Transaction.
// IsPublicBurden is copied from the category when the payment is written and is
// not refreshed if the category flag changes later.
type ScheduledPayment struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CategoryID      uuid.UUID
	EstimatedAmount decimal.Decimal
	ActualAmount    *decimal.Decimal
	DueDate         time.Time
	Memo            string
	Status          ScheduledPaymentStatus
	IsPublicBurden  bool
	TransactionID   *uuid.UUID
	CompletedAt     *time.Time
	ReminderSentAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewScheduledPayment creates a pending scheduled payment.
func NewScheduledPayment(
	userID uuid.UUID,
	categoryID uuid.UUID,
	estimatedAmount decimal.Decimal,
	dueDate time.Time,
	memo string,
	isPublicBurden bool,
) *ScheduledPayment {
	now := time.Now().UTC()

	return &ScheduledPayment{
		ID:              uuid.New(),
		UserID:          userID,
		CategoryID:      categoryID,
		EstimatedAmount: estimatedAmount,
		DueDate:         dueDate,
		Memo:            memo,
		Status:          ScheduledPaymentStatusPending,
		IsPublicBurden:  isPublicBurden,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsPending reports whether the payment can still be edited or completed.
func (p *ScheduledPayment) IsPending() bool {
	return p.Status == ScheduledPaymentStatusPending
}

// PaidAmount returns the actual amount when recorded, otherwise the estimate.
func (p *ScheduledPayment) PaidAmount() decimal.Decimal {
	if p.ActualAmount != nil {
		return *p.ActualAmount
	}
	return p.EstimatedAmount
}

// Complete marks the payment as paid by the given transaction.
func (p *ScheduledPayment) Complete(transactionID uuid.UUID, actualAmount decimal.Decimal, at time.Time) {
	p.Status = ScheduledPaymentStatusCompleted
	p.TransactionID = &transactionID
	p.ActualAmount = &actualAmount
	p.CompletedAt = &at
	p.UpdatedAt = at
}

// ScheduledPaymentWithCategory represents a scheduled payment with its category.
type ScheduledPaymentWithCategory struct {
	Payment  *ScheduledPayment
	Category *Category
}
