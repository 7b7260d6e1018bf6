package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// PublicBurdenMonth groups public burden payments by the YYYY-MM of their due date.
type PublicBurdenMonth struct {
	Month     string
	Pending   decimal.Decimal
	Completed decimal.Decimal
}

// PublicBurdenSummary totals taxes, insurance and similar obligations.
type PublicBurdenSummary struct {
	TotalPending   decimal.Decimal
	TotalCompleted decimal.Decimal
	Total          decimal.Decimal
	PendingCount   int
	CompletedCount int
	Months         []PublicBurdenMonth
}

// SummarizePublicBurden totals the payments flagged as public burden.
// Completed payments count their paid amount, pending ones their estimate.
func SummarizePublicBurden(payments []*entity.ScheduledPayment) PublicBurdenSummary {
	summary := PublicBurdenSummary{
		TotalPending:   decimal.Zero,
		TotalCompleted: decimal.Zero,
		Total:          decimal.Zero,
		Months:         make([]PublicBurdenMonth, 0),
	}
	index := make(map[string]int)

	for _, p := range payments {
		if !p.IsPublicBurden {
			continue
		}
		month := p.DueDate.Format("2006-01")
		i, ok := index[month]
		if !ok {
			i = len(summary.Months)
			index[month] = i
			summary.Months = append(summary.Months, PublicBurdenMonth{
				Month:     month,
				Pending:   decimal.Zero,
				Completed: decimal.Zero,
			})
		}

		if p.IsPending() {
			summary.TotalPending = summary.TotalPending.Add(p.EstimatedAmount)
			summary.Months[i].Pending = summary.Months[i].Pending.Add(p.EstimatedAmount)
			summary.PendingCount++
		} else {
			paid := p.PaidAmount()
			summary.TotalCompleted = summary.TotalCompleted.Add(paid)
			summary.Months[i].Completed = summary.Months[i].Completed.Add(paid)
			summary.CompletedCount++
		}
	}

	sort.Slice(summary.Months, func(a, b int) bool {
		return summary.Months[a].Month < summary.Months[b].Month
	})
	summary.Total = summary.TotalPending.Add(summary.TotalCompleted)

	return summary
}
