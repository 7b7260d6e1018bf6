package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// MonthlyBucket is one month of the stacked income/expense series.
type MonthlyBucket struct {
	Label    string
	Year     int
	Month    time.Month
	Income   decimal.Decimal
	Expenses map[string]decimal.Decimal
}

// MonthLabel formats a month as YYYY/M.
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%d/%d", year, int(month))
}

// SeriesBounds returns the first day of the oldest bucket and the last day of the
// reference month for a series of monthsBack buckets.
func SeriesBounds(monthsBack int, reference time.Time) (time.Time, time.Time) {
	refMonth := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
	from := refMonth.AddDate(0, -(monthsBack - 1), 0)
	to := refMonth.AddDate(0, 1, -1)
	return from, to
}

// BuildMonthlySeries returns monthsBack consecutive buckets ending at the month of
// reference, oldest first. Every bucket starts with zero income and a zero entry for
// each name in expenseCategoryNames. Expense views whose category name is not listed
// and views outside the window are ignored.
func BuildMonthlySeries(
	views []entity.TransactionView,
	expenseCategoryNames []string,
	monthsBack int,
	reference time.Time,
) []MonthlyBucket {
	if monthsBack <= 0 {
		return []MonthlyBucket{}
	}

	from, _ := SeriesBounds(monthsBack, reference)
	buckets := make([]MonthlyBucket, monthsBack)
	index := make(map[int]int, monthsBack)

	for i := 0; i < monthsBack; i++ {
		month := from.AddDate(0, i, 0)
		expenses := make(map[string]decimal.Decimal, len(expenseCategoryNames))
		for _, name := range expenseCategoryNames {
			expenses[name] = decimal.Zero
		}
		buckets[i] = MonthlyBucket{
			Label:    MonthLabel(month.Year(), month.Month()),
			Year:     month.Year(),
			Month:    month.Month(),
			Income:   decimal.Zero,
			Expenses: expenses,
		}
		index[monthKey(month.Year(), month.Month())] = i
	}

	for _, v := range views {
		i, ok := index[monthKey(v.Date.Year(), v.Date.Month())]
		if !ok {
			continue
		}
		if v.IsIncome() {
			buckets[i].Income = buckets[i].Income.Add(v.Amount)
			continue
		}
		if current, known := buckets[i].Expenses[v.CategoryName]; known {
			buckets[i].Expenses[v.CategoryName] = current.Add(v.Amount)
		}
	}

	return buckets
}

func monthKey(year int, month time.Month) int {
	return year*12 + int(month) - 1
}
