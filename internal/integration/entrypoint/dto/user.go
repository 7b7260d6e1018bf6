package dto

import "github.com/shopspring/decimal"

// UpdateBalanceRequest sets or clears the starting balance. Both fields are
// given together, or both omitted to clear the setting.
type UpdateBalanceRequest struct {
	InitialBalance   *decimal.Decimal `json:"initial_balance"`
	BalanceStartDate *string          `json:"balance_start_date"`
}

// UpdatePreferencesRequest represents the request body for notification preferences.
type UpdatePreferencesRequest struct {
	PaymentReminders *bool `json:"payment_reminders" binding:"required"`
}
