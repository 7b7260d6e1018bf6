package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/usecase/analytics"
)

// Analytics payloads use camelCase keys and emit amounts as exact JSON numbers.

// AnalyticsPeriod echoes the requested range.
type AnalyticsPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AnalyticsSummary holds the period totals.
type AnalyticsSummary struct {
	TotalIncome      json.Number `json:"totalIncome"`
	TotalExpense     json.Number `json:"totalExpense"`
	Balance          json.Number `json:"balance"`
	TransactionCount int         `json:"transactionCount"`
}

// CategoryStat is one category's total for the period.
type CategoryStat struct {
	CategoryID   string      `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
	CategoryType string      `json:"categoryType"`
	CategoryIcon string      `json:"categoryIcon,omitempty"`
	TotalAmount  json.Number `json:"totalAmount"`
	Count        int         `json:"count"`
}

// DailyStat is one day's income and expense.
type DailyStat struct {
	Date    string      `json:"date"`
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
}

// DailyCategoryStat is one day's expense split by category name.
type DailyCategoryStat struct {
	Date       string                 `json:"date"`
	Categories map[string]json.Number `json:"categories"`
}

// AnalyticsResponse is the GET /analytics payload.
type AnalyticsResponse struct {
	Period             AnalyticsPeriod     `json:"period"`
	Summary            AnalyticsSummary    `json:"summary"`
	CategoryStats      []CategoryStat      `json:"categoryStats"`
	DailyStats         []DailyStat         `json:"dailyStats"`
	DailyCategoryStats []DailyCategoryStat `json:"dailyCategoryStats"`
}

// BalanceResponse is the GET /analytics/balance payload. Only Configured is
// set when the user has no starting balance.
type BalanceResponse struct {
	Configured       bool         `json:"configured"`
	InitialBalance   *json.Number `json:"initialBalance,omitempty"`
	BalanceStartDate string       `json:"balanceStartDate,omitempty"`
	TotalIncome      *json.Number `json:"totalIncome,omitempty"`
	TotalExpense     *json.Number `json:"totalExpense,omitempty"`
	CurrentBalance   *json.Number `json:"currentBalance,omitempty"`
}

// MonthlyPoint is one bucket of the monthly stacked series.
type MonthlyPoint struct {
	Month    string                 `json:"month"`
	Income   json.Number            `json:"income"`
	Expenses map[string]json.Number `json:"expenses"`
}

// MonthlySeriesResponse is the GET /analytics/monthly payload.
type MonthlySeriesResponse struct {
	Categories []string       `json:"categories"`
	Months     []MonthlyPoint `json:"months"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func numberPtr(d decimal.Decimal) *json.Number {
	n := number(d)
	return &n
}

// ToAnalyticsResponse converts the aggregation output to the analytics payload.
func ToAnalyticsResponse(output *analytics.GetAnalyticsOutput) AnalyticsResponse {
	r := output.Result

	categoryStats := make([]CategoryStat, 0, len(r.CategoryTotals))
	for _, ct := range r.CategoryTotals {
		categoryStats = append(categoryStats, CategoryStat{
			CategoryID:   ct.CategoryID.String(),
			CategoryName: ct.CategoryName,
			CategoryType: string(ct.CategoryType),
			CategoryIcon: ct.CategoryIcon,
			TotalAmount:  number(ct.TotalAmount),
			Count:        ct.Count,
		})
	}

	dailyStats := make([]DailyStat, 0, len(r.DailyTotals))
	for _, dt := range r.DailyTotals {
		dailyStats = append(dailyStats, DailyStat{
			Date:    dt.Date,
			Income:  number(dt.Income),
			Expense: number(dt.Expense),
		})
	}

	dailyCategoryStats := make([]DailyCategoryStat, 0, len(r.DailyCategoryTotals))
	for _, dc := range r.DailyCategoryTotals {
		categories := make(map[string]json.Number, len(dc.Categories))
		for name, amount := range dc.Categories {
			categories[name] = number(amount)
		}
		dailyCategoryStats = append(dailyCategoryStats, DailyCategoryStat{Date: dc.Date, Categories: categories})
	}

	return AnalyticsResponse{
		Period: AnalyticsPeriod{
			StartDate: output.StartDate.Format(DateLayout),
			EndDate:   output.EndDate.Format(DateLayout),
		},
		Summary: AnalyticsSummary{
			TotalIncome:      number(r.Summary.TotalIncome),
			TotalExpense:     number(r.Summary.TotalExpense),
			Balance:          number(r.Summary.Balance),
			TransactionCount: r.Summary.TransactionCount,
		},
		CategoryStats:      categoryStats,
		DailyStats:         dailyStats,
		DailyCategoryStats: dailyCategoryStats,
	}
}

// ToBalanceResponse converts the balance output to its payload.
func ToBalanceResponse(output *analytics.GetBalanceOutput) BalanceResponse {
	if !output.Configured {
		return BalanceResponse{Configured: false}
	}
	b := output.Balance
	return BalanceResponse{
		Configured:       true,
		InitialBalance:   numberPtr(b.InitialBalance),
		BalanceStartDate: b.BalanceStartDate.Format(DateLayout),
		TotalIncome:      numberPtr(b.TotalIncome),
		TotalExpense:     numberPtr(b.TotalExpense),
		CurrentBalance:   numberPtr(b.CurrentBalance),
	}
}

// ToMonthlySeriesResponse converts the monthly buckets to their payload.
func ToMonthlySeriesResponse(output *analytics.GetMonthlySeriesOutput) MonthlySeriesResponse {
	months := make([]MonthlyPoint, 0, len(output.Buckets))
	for _, b := range output.Buckets {
		expenses := make(map[string]json.Number, len(b.Expenses))
		for name, amount := range b.Expenses {
			expenses[name] = number(amount)
		}
		months = append(months, MonthlyPoint{
			Month:    b.Label,
			Income:   number(b.Income),
			Expenses: expenses,
		})
	}
	categories := output.CategoryNames
	if categories == nil {
		categories = []string{}
	}
	return MonthlySeriesResponse{Categories: categories, Months: months}
}

// ParseDate parses a YYYY-MM-DD wire date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
