package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// BalanceResult is the running balance from a configured starting point.
type BalanceResult struct {
	InitialBalance   decimal.Decimal
	BalanceStartDate time.Time
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	CurrentBalance   decimal.Decimal
}

// CurrentBalance computes initial + income - expense over views dated on or after start.
// It returns false when either the initial balance or the start date is unset.
// Views before start are skipped, so callers may pass a wider set than needed.
func CurrentBalance(initial *decimal.Decimal, start *time.Time, views []entity.TransactionView) (BalanceResult, bool) {
	if initial == nil || start == nil {
		return BalanceResult{}, false
	}

	startDay := start.Format(DayLayout)
	income := decimal.Zero
	expense := decimal.Zero
	for _, v := range views {
		if v.Date.Format(DayLayout) < startDay {
			continue
		}
		if v.IsIncome() {
			income = income.Add(v.Amount)
		} else {
			expense = expense.Add(v.Amount)
		}
	}

	return BalanceResult{
		InitialBalance:   *initial,
		BalanceStartDate: *start,
		TotalIncome:      income,
		TotalExpense:     expense,
		CurrentBalance:   initial.Add(income).Sub(expense),
	}, true
}
