package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/domain/entity"
)

func TestBuildMonthlySeries_TwelveBucketsPrefilled(t *testing.T) {
	names := []string{"Food", "Rent"}
	reference := day("2025-03-15")

	series := BuildMonthlySeries(nil, names, 12, reference)

	require.Len(t, series, 12)
	assert.Equal(t, "2024/4", series[0].Label)
	assert.Equal(t, "2025/3", series[11].Label)
	for _, bucket := range series {
		assert.True(t, bucket.Income.IsZero(), bucket.Label)
		for _, name := range names {
			amount, ok := bucket.Expenses[name]
			assert.True(t, ok, "%s missing %s", bucket.Label, name)
			assert.True(t, amount.IsZero())
		}
	}
}

func TestBuildMonthlySeries_AddsIntoOwnMonth(t *testing.T) {
	food := uuid.New()
	views := []entity.TransactionView{
		view("2025-01-05", "1200", food, "Food", entity.CategoryTypeExpense),
		view("2025-01-20", "800", food, "Food", entity.CategoryTypeExpense),
		view("2025-02-25", "250000", uuid.New(), "Salary", entity.CategoryTypeIncome),
		view("2025-02-26", "999", uuid.New(), "Unknown", entity.CategoryTypeExpense),
		view("2024-10-01", "5000", food, "Food", entity.CategoryTypeExpense),
		view("2025-04-01", "5000", food, "Food", entity.CategoryTypeExpense),
	}

	series := BuildMonthlySeries(views, []string{"Food"}, 3, day("2025-03-01"))

	require.Len(t, series, 3)
	assert.Equal(t, []string{"2025/1", "2025/2", "2025/3"}, []string{series[0].Label, series[1].Label, series[2].Label})

	assert.True(t, series[0].Expenses["Food"].Equal(dec("2000")))
	assert.True(t, series[0].Income.IsZero())

	assert.True(t, series[1].Income.Equal(dec("250000")))
	assert.True(t, series[1].Expenses["Food"].IsZero())
	assert.NotContains(t, series[1].Expenses, "Unknown")

	assert.True(t, series[2].Expenses["Food"].IsZero())
}

func TestBuildMonthlySeries_CrossesYearBoundary(t *testing.T) {
	series := BuildMonthlySeries(nil, nil, 3, day("2025-01-31"))

	require.Len(t, series, 3)
	assert.Equal(t, "2024/11", series[0].Label)
	assert.Equal(t, "2024/12", series[1].Label)
	assert.Equal(t, "2025/1", series[2].Label)
	assert.Equal(t, time.November, series[0].Month)
}

func TestBuildMonthlySeries_NonPositiveMonths(t *testing.T) {
	assert.Empty(t, BuildMonthlySeries(nil, []string{"Food"}, 0, day("2025-01-01")))
	assert.Empty(t, BuildMonthlySeries(nil, []string{"Food"}, -3, day("2025-01-01")))
}

func TestSeriesBounds(t *testing.T) {
	from, to := SeriesBounds(12, day("2025-03-15"))

	assert.Equal(t, day("2024-04-01"), from)
	assert.Equal(t, day("2025-03-31"), to)
}
