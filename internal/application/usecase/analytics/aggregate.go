// Package analytics contains the aggregation engine behind the analytics endpoints
// and the use cases that feed it from storage.
package analytics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// DayLayout is the key format for daily buckets.
const DayLayout = "2006-01-02"

// CategoryTotal is the sum of all views that share a category.
type CategoryTotal struct {
	CategoryID   uuid.UUID
	CategoryName string
	CategoryType entity.CategoryType
	CategoryIcon string
	TotalAmount  decimal.Decimal
	Count        int
}

// DailyTotal holds income and expense for one calendar day.
type DailyTotal struct {
	Date    string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DailyCategoryTotal holds expense totals per category name for one calendar day.
type DailyCategoryTotal struct {
	Date       string
	Categories map[string]decimal.Decimal
}

// Summary holds the period totals.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}

// AggregationResult is everything Aggregate derives from one set of views.
type AggregationResult struct {
	CategoryTotals      []CategoryTotal
	DailyTotals         []DailyTotal
	DailyCategoryTotals []DailyCategoryTotal
	Summary             Summary
}

// Aggregate folds views into category, daily and daily-per-category totals.
//
// Category totals are ordered by amount descending; ties keep the order in which
// the categories first appear in views. Daily results are ordered by date.
// Any category type other than income counts as expense.
func Aggregate(views []entity.TransactionView) AggregationResult {
	result := AggregationResult{
		CategoryTotals:      make([]CategoryTotal, 0),
		DailyTotals:         make([]DailyTotal, 0),
		DailyCategoryTotals: make([]DailyCategoryTotal, 0),
		Summary: Summary{
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
			Balance:      decimal.Zero,
		},
	}
	if len(views) == 0 {
		return result
	}

	categoryIndex := make(map[uuid.UUID]int)
	dailyIndex := make(map[string]int)
	dailyCategoryIndex := make(map[string]int)

	for _, v := range views {
		if i, ok := categoryIndex[v.CategoryID]; ok {
			result.CategoryTotals[i].TotalAmount = result.CategoryTotals[i].TotalAmount.Add(v.Amount)
			result.CategoryTotals[i].Count++
		} else {
			categoryIndex[v.CategoryID] = len(result.CategoryTotals)
			result.CategoryTotals = append(result.CategoryTotals, CategoryTotal{
				CategoryID:   v.CategoryID,
				CategoryName: v.CategoryName,
				CategoryType: v.CategoryType,
				CategoryIcon: v.CategoryIcon,
				TotalAmount:  v.Amount,
				Count:        1,
			})
		}

		day := v.Date.Format(DayLayout)
		i, ok := dailyIndex[day]
		if !ok {
			i = len(result.DailyTotals)
			dailyIndex[day] = i
			result.DailyTotals = append(result.DailyTotals, DailyTotal{
				Date:    day,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}
		if v.IsIncome() {
			result.DailyTotals[i].Income = result.DailyTotals[i].Income.Add(v.Amount)
			continue
		}
		result.DailyTotals[i].Expense = result.DailyTotals[i].Expense.Add(v.Amount)

		if v.CategoryType != entity.CategoryTypeExpense {
			continue
		}
		j, ok := dailyCategoryIndex[day]
		if !ok {
			j = len(result.DailyCategoryTotals)
			dailyCategoryIndex[day] = j
			result.DailyCategoryTotals = append(result.DailyCategoryTotals, DailyCategoryTotal{
				Date:       day,
				Categories: make(map[string]decimal.Decimal),
			})
		}
		categories := result.DailyCategoryTotals[j].Categories
		categories[v.CategoryName] = categories[v.CategoryName].Add(v.Amount)
	}

	sort.SliceStable(result.CategoryTotals, func(a, b int) bool {
		return result.CategoryTotals[a].TotalAmount.GreaterThan(result.CategoryTotals[b].TotalAmount)
	})
	sort.Slice(result.DailyTotals, func(a, b int) bool {
		return result.DailyTotals[a].Date < result.DailyTotals[b].Date
	})
	sort.Slice(result.DailyCategoryTotals, func(a, b int) bool {
		return result.DailyCategoryTotals[a].Date < result.DailyCategoryTotals[b].Date
	})

	for _, c := range result.CategoryTotals {
		if c.CategoryType == entity.CategoryTypeIncome {
			result.Summary.TotalIncome = result.Summary.TotalIncome.Add(c.TotalAmount)
		} else {
			result.Summary.TotalExpense = result.Summary.TotalExpense.Add(c.TotalAmount)
		}
	}
	result.Summary.Balance = result.Summary.TotalIncome.Sub(result.Summary.TotalExpense)
	result.Summary.TransactionCount = len(views)

	return result
}
