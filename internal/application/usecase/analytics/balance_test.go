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

func TestCurrentBalance(t *testing.T) {
	initial := dec("300000")
	start := day("2025-01-01")
	views := []entity.TransactionView{
		view("2025-01-05", "50000", uuid.New(), "Salary", entity.CategoryTypeIncome),
		view("2025-01-10", "20000", uuid.New(), "Rent", entity.CategoryTypeExpense),
	}

	tests := []struct {
		name    string
		initial *decimal.Decimal
		start   string
		wantOK  bool
		want    string
	}{
		{name: "configured", initial: &initial, start: "2025-01-01", wantOK: true, want: "330000"},
		{name: "missing initial balance", initial: nil, start: "2025-01-01"},
		{name: "missing start date", initial: &initial, start: ""},
		{name: "start excludes earlier views", initial: &initial, start: "2025-01-06", wantOK: true, want: "280000"},
		{name: "start is inclusive", initial: &initial, start: "2025-01-10", wantOK: true, want: "280000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var startPtr *time.Time
			if tt.start != "" {
				d := day(tt.start)
				startPtr = &d
			}
			result, ok := CurrentBalance(tt.initial, startPtr, views)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, result.CurrentBalance.String())
		})
	}

	t.Run("totals are reported", func(t *testing.T) {
		result, ok := CurrentBalance(&initial, &start, views)
		require.True(t, ok)
		assert.True(t, result.TotalIncome.Equal(dec("50000")))
		assert.True(t, result.TotalExpense.Equal(dec("20000")))
		assert.True(t, result.InitialBalance.Equal(initial))
		assert.Equal(t, start, result.BalanceStartDate)
	})

	t.Run("no views keeps initial balance", func(t *testing.T) {
		result, ok := CurrentBalance(&initial, &start, nil)
		require.True(t, ok)
		assert.True(t, result.CurrentBalance.Equal(initial))
	})
}
