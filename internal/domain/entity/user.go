// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user of the ledger.
type User struct {
	ID               uuid.UUID
	Email            string
	Name             string
	PasswordHash     string
	InitialBalance   *decimal.Decimal
	BalanceStartDate *time.Time
	PaymentReminders bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:               uuid.New(),
		Email:            email,
		Name:             name,
		PasswordHash:     passwordHash,
		PaymentReminders: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// HasBalanceSettings reports whether both the initial balance and its start date are set.
func (u *User) HasBalanceSettings() bool {
	return u.InitialBalance != nil && u.BalanceStartDate != nil
}
