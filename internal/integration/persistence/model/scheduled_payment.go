package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// ScheduledPaymentModel represents the scheduled_payments table in the database.
type ScheduledPaymentModel struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index:idx_scheduled_payments_user_due"`
	CategoryID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	EstimatedAmount decimal.Decimal     `gorm:"type:decimal(15,2);not null"`
	ActualAmount    decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	DueDate         time.Time           `gorm:"type:date;not null;index:idx_scheduled_payments_user_due"`
	Memo            string              `gorm:"type:varchar(255)"`
	Status          string              `gorm:"type:varchar(20);not null;index"`
	IsPublicBurden  bool                `gorm:"not null"`
	TransactionID   *uuid.UUID          `gorm:"type:uuid;index"`
	CompletedAt     *time.Time
	ReminderSentAt  *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the ScheduledPaymentModel.
func (ScheduledPaymentModel) TableName() string {
	return "scheduled_payments"
}

// ToEntity converts a ScheduledPaymentModel to a domain ScheduledPayment entity.
func (m *ScheduledPaymentModel) ToEntity() *entity.ScheduledPayment {
	var actual *decimal.Decimal
	if m.ActualAmount.Valid {
		v := m.ActualAmount.Decimal
		actual = &v
	}

	return &entity.ScheduledPayment{
		ID:              m.ID,
		UserID:          m.UserID,
		CategoryID:      m.CategoryID,
		EstimatedAmount: m.EstimatedAmount,
		ActualAmount:    actual,
		DueDate:         m.DueDate,
		Memo:            m.Memo,
		Status:          entity.ScheduledPaymentStatus(m.Status),
		IsPublicBurden:  m.IsPublicBurden,
		TransactionID:   m.TransactionID,
		CompletedAt:     m.CompletedAt,
		ReminderSentAt:  m.ReminderSentAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToEntityWithCategory converts the model and its preloaded category.
func (m *ScheduledPaymentModel) ToEntityWithCategory() *entity.ScheduledPaymentWithCategory {
	result := &entity.ScheduledPaymentWithCategory{
		Payment: m.ToEntity(),
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// ScheduledPaymentFromEntity creates a ScheduledPaymentModel from a domain ScheduledPayment entity.
func ScheduledPaymentFromEntity(payment *entity.ScheduledPayment) *ScheduledPaymentModel {
	var actual decimal.NullDecimal
	if payment.ActualAmount != nil {
		actual = decimal.NewNullDecimal(*payment.ActualAmount)
	}

	return &ScheduledPaymentModel{
		ID:              payment.ID,
		UserID:          payment.UserID,
		CategoryID:      payment.CategoryID,
		EstimatedAmount: payment.EstimatedAmount,
		ActualAmount:    actual,
		DueDate:         payment.DueDate,
		Memo:            payment.Memo,
		Status:          string(payment.Status),
		IsPublicBurden:  payment.IsPublicBurden,
		TransactionID:   payment.TransactionID,
		CompletedAt:     payment.CompletedAt,
		ReminderSentAt:  payment.ReminderSentAt,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
}
