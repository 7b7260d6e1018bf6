// Package export encodes transactions as CSV or XLSX files.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kakeibo/backend/internal/application/usecase/transaction"
)

const sheetName = "Transactions"

var header = []string{"Date", "Type", "Category", "Description", "Amount"}

// Exporter implements transaction.TransactionExporter.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export encodes rows in the requested format.
func (e *Exporter) Export(_ context.Context, format transaction.ExportFormat, rows []*transaction.TransactionOutput) ([]byte, error) {
	switch format {
	case transaction.ExportFormatCSV:
		return encodeCSV(rows)
	case transaction.ExportFormatXLSX:
		return encodeXLSX(rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func record(row *transaction.TransactionOutput) []string {
	var categoryName, categoryType string
	if row.Category != nil {
		categoryName = row.Category.Name
		categoryType = string(row.Category.Type)
	}
	return []string{
		row.Date.Format("2006-01-02"),
		categoryType,
		categoryName,
		row.Description,
		row.Amount.String(),
	}
}

func encodeCSV(rows []*transaction.TransactionOutput) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(record(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeXLSX(rows []*transaction.TransactionOutput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cells := record(row)
		// Amount is numeric in the sheet.
		values := []any{cells[0], cells[1], cells[2], cells[3], row.Amount.InexactFloat64()}
		if err := writeRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 32)
	_ = f.SetColWidth(sheetName, "E", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &out); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
