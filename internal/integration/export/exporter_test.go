package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kakeibo/backend/internal/application/usecase/transaction"
	"github.com/kakeibo/backend/internal/domain/entity"
)

func sampleRows() []*transaction.TransactionOutput {
	return []*transaction.TransactionOutput{
		{
			ID:          uuid.New(),
			Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Description: "lunch, with team",
			Amount:      decimal.RequireFromString("1200.50"),
			Category:    &transaction.CategoryOutput{Name: "Food", Type: entity.CategoryTypeExpense},
		},
		{
			ID:     uuid.New(),
			Date:   time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(250000),
			Category: &transaction.CategoryOutput{
				Name: "Salary",
				Type: entity.CategoryTypeIncome,
			},
		},
	}
}

func TestExporter_CSV(t *testing.T) {
	content, err := NewExporter().Export(context.Background(), transaction.ExportFormatCSV, sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"2024-06-01", "expense", "Food", "lunch, with team", "1200.5"}, records[1])
	assert.Equal(t, "income", records[2][1])
}

func TestExporter_XLSX(t *testing.T) {
	content, err := NewExporter().Export(context.Background(), transaction.ExportFormatXLSX, sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Category", rows[0][2])
	assert.Equal(t, "Salary", rows[2][2])
	assert.Equal(t, "250000", rows[2][4])
}

func TestExporter_EmptyAndUnknown(t *testing.T) {
	content, err := NewExporter().Export(context.Background(), transaction.ExportFormatCSV, nil)
	require.NoError(t, err)
	assert.Equal(t, "Date,Type,Category,Description,Amount\n", string(content))

	_, err = NewExporter().Export(context.Background(), "pdf", nil)
	assert.Error(t, err)
}
