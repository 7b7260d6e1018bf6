package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionView is the read projection of a transaction joined with its category.
// It is the only input the analytics functions accept.
type TransactionView struct {
	ID           uuid.UUID
	Amount       decimal.Decimal
	Date         time.Time
	CategoryID   uuid.UUID
	CategoryName string
	CategoryType CategoryType
	CategoryIcon string
}

// IsIncome reports whether the view belongs to an income category.
func (v TransactionView) IsIncome() bool {
	return v.CategoryType == CategoryTypeIncome
}

// NewTransactionView builds the projection from a transaction and its category.
func NewTransactionView(t *Transaction, c *Category) TransactionView {
	return TransactionView{
		ID:           t.ID,
		Amount:       t.Amount,
		Date:         t.Date,
		CategoryID:   c.ID,
		CategoryName: c.Name,
		CategoryType: c.Type,
		CategoryIcon: c.Icon,
	}
}
