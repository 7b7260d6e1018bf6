// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Email            string              `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string              `gorm:"type:varchar(100);not null"`
	PasswordHash     string              `gorm:"type:varchar(255);not null"`
	InitialBalance   decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	BalanceStartDate *time.Time          `gorm:"type:date"`
	PaymentReminders bool                `gorm:"not null"`
	CreatedAt        time.Time           `gorm:"not null"`
	UpdatedAt        time.Time           `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	var initial *decimal.Decimal
	if m.InitialBalance.Valid {
		v := m.InitialBalance.Decimal
		initial = &v
	}

	return &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		InitialBalance:   initial,
		BalanceStartDate: m.BalanceStartDate,
		PaymentReminders: m.PaymentReminders,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// UserFromEntity creates a UserModel from a domain User entity.
func UserFromEntity(user *entity.User) *UserModel {
	var initial decimal.NullDecimal
	if user.InitialBalance != nil {
		initial = decimal.NewNullDecimal(*user.InitialBalance)
	}

	return &UserModel{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		InitialBalance:   initial,
		BalanceStartDate: user.BalanceStartDate,
		PaymentReminders: user.PaymentReminders,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

// RefreshTokenModel represents the refresh_tokens table for token invalidation tracking.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token       string    `gorm:"type:varchar(500);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Invalidated bool      `gorm:"default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
