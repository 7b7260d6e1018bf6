package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/domain/entity"
)

func day(s string) time.Time {
	d, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func view(date, amount string, id uuid.UUID, name string, t entity.CategoryType) entity.TransactionView {
	return entity.TransactionView{
		ID:           uuid.New(),
		Amount:       dec(amount),
		Date:         day(date),
		CategoryID:   id,
		CategoryName: name,
		CategoryType: t,
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	result := Aggregate(nil)

	assert.NotNil(t, result.CategoryTotals)
	assert.Empty(t, result.CategoryTotals)
	assert.NotNil(t, result.DailyTotals)
	assert.Empty(t, result.DailyTotals)
	assert.NotNil(t, result.DailyCategoryTotals)
	assert.Empty(t, result.DailyCategoryTotals)
	assert.True(t, result.Summary.TotalIncome.IsZero())
	assert.True(t, result.Summary.TotalExpense.IsZero())
	assert.True(t, result.Summary.Balance.IsZero())
	assert.Equal(t, 0, result.Summary.TransactionCount)
}

func TestAggregate_FoodAndSalary(t *testing.T) {
	food := uuid.New()
	salary := uuid.New()
	views := []entity.TransactionView{
		view("2025-01-01", "1000", food, "Food", entity.CategoryTypeExpense),
		view("2025-01-01", "500", food, "Food", entity.CategoryTypeExpense),
		view("2025-01-02", "3000", salary, "Salary", entity.CategoryTypeIncome),
	}

	result := Aggregate(views)

	require.Len(t, result.CategoryTotals, 2)
	assert.Equal(t, "Salary", result.CategoryTotals[0].CategoryName)
	assert.True(t, result.CategoryTotals[0].TotalAmount.Equal(dec("3000")))
	assert.Equal(t, 1, result.CategoryTotals[0].Count)
	assert.Equal(t, "Food", result.CategoryTotals[1].CategoryName)
	assert.True(t, result.CategoryTotals[1].TotalAmount.Equal(dec("1500")))
	assert.Equal(t, 2, result.CategoryTotals[1].Count)

	require.Len(t, result.DailyTotals, 2)
	assert.Equal(t, "2025-01-01", result.DailyTotals[0].Date)
	assert.True(t, result.DailyTotals[0].Income.IsZero())
	assert.True(t, result.DailyTotals[0].Expense.Equal(dec("1500")))
	assert.Equal(t, "2025-01-02", result.DailyTotals[1].Date)
	assert.True(t, result.DailyTotals[1].Income.Equal(dec("3000")))
	assert.True(t, result.DailyTotals[1].Expense.IsZero())

	require.Len(t, result.DailyCategoryTotals, 1)
	assert.Equal(t, "2025-01-01", result.DailyCategoryTotals[0].Date)
	assert.True(t, result.DailyCategoryTotals[0].Categories["Food"].Equal(dec("1500")))

	assert.True(t, result.Summary.TotalIncome.Equal(dec("3000")))
	assert.True(t, result.Summary.TotalExpense.Equal(dec("1500")))
	assert.True(t, result.Summary.Balance.Equal(dec("1500")))
	assert.Equal(t, 3, result.Summary.TransactionCount)
}

func TestAggregate_TiesKeepFirstAppearance(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	views := []entity.TransactionView{
		view("2025-02-01", "100", a, "A", entity.CategoryTypeExpense),
		view("2025-02-01", "300", b, "B", entity.CategoryTypeExpense),
		view("2025-02-02", "100", c, "C", entity.CategoryTypeExpense),
	}

	result := Aggregate(views)

	require.Len(t, result.CategoryTotals, 3)
	assert.Equal(t, "B", result.CategoryTotals[0].CategoryName)
	assert.Equal(t, "A", result.CategoryTotals[1].CategoryName)
	assert.Equal(t, "C", result.CategoryTotals[2].CategoryName)
}

func TestAggregate_DailyTotalsSortedByDate(t *testing.T) {
	cat := uuid.New()
	views := []entity.TransactionView{
		view("2025-03-10", "1", cat, "X", entity.CategoryTypeExpense),
		view("2025-03-02", "1", cat, "X", entity.CategoryTypeExpense),
		view("2025-03-05", "1", cat, "X", entity.CategoryTypeExpense),
	}

	result := Aggregate(views)

	dates := make([]string, 0, len(result.DailyTotals))
	for _, d := range result.DailyTotals {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"2025-03-02", "2025-03-05", "2025-03-10"}, dates)
	require.Len(t, result.DailyCategoryTotals, 3)
	assert.Equal(t, "2025-03-02", result.DailyCategoryTotals[0].Date)
}

func TestAggregate_DailyCategoryExcludesIncome(t *testing.T) {
	views := []entity.TransactionView{
		view("2025-04-01", "5000", uuid.New(), "Salary", entity.CategoryTypeIncome),
		view("2025-04-01", "800", uuid.New(), "Food", entity.CategoryTypeExpense),
		view("2025-04-01", "200", uuid.New(), "Transit", entity.CategoryTypeExpense),
	}

	result := Aggregate(views)

	require.Len(t, result.DailyCategoryTotals, 1)
	categories := result.DailyCategoryTotals[0].Categories
	assert.Len(t, categories, 2)
	assert.NotContains(t, categories, "Salary")
	assert.True(t, categories["Food"].Equal(dec("800")))
	assert.True(t, categories["Transit"].Equal(dec("200")))
}

func TestAggregate_ManySmallAmountsAreExact(t *testing.T) {
	cat := uuid.New()
	views := make([]entity.TransactionView, 0, 10000)
	for i := 0; i < 10000; i++ {
		views = append(views, view("2025-05-01", "0.1", cat, "Snacks", entity.CategoryTypeExpense))
	}

	result := Aggregate(views)

	require.Len(t, result.CategoryTotals, 1)
	assert.Equal(t, "1000", result.CategoryTotals[0].TotalAmount.String())
	assert.Equal(t, "1000", result.Summary.TotalExpense.String())
	assert.Equal(t, 10000, result.Summary.TransactionCount)
}

func TestAggregate_CarriesCategoryIcon(t *testing.T) {
	cat := uuid.New()
	v := view("2025-06-01", "10", cat, "Coffee", entity.CategoryTypeExpense)
	v.CategoryIcon = "cup"

	result := Aggregate([]entity.TransactionView{v})

	require.Len(t, result.CategoryTotals, 1)
	assert.Equal(t, "cup", result.CategoryTotals[0].CategoryIcon)
	assert.Equal(t, cat, result.CategoryTotals[0].CategoryID)
}
