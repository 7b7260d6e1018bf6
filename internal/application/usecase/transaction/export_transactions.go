package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// ExportFormat is the file format of an export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// TransactionExporter encodes transaction rows into a file.
type TransactionExporter interface {
	Export(ctx context.Context, format ExportFormat, rows []*TransactionOutput) ([]byte, error)
}

// ExportTransactionsInput represents the input for an export.
type ExportTransactionsInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Format    ExportFormat
}

// ExportTransactionsOutput carries the encoded file.
type ExportTransactionsOutput struct {
	Filename string
	Format   ExportFormat
	Content  []byte
	Rows     int
}

// ExportTransactionsUseCase exports every transaction in a date range.
type ExportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	exporter        TransactionExporter
}

// NewExportTransactionsUseCase creates a new ExportTransactionsUseCase instance.
func NewExportTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	exporter TransactionExporter,
) *ExportTransactionsUseCase {
	return &ExportTransactionsUseCase{
		transactionRepo: transactionRepo,
		exporter:        exporter,
	}
}

// Execute loads all matching transactions page by page and encodes them.
func (uc *ExportTransactionsUseCase) Execute(ctx context.Context, input ExportTransactionsInput) (*ExportTransactionsOutput, error) {
	format := input.Format
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeUnsupportedExportFormat,
			"format must be 'csv' or 'xlsx'",
			domainerror.ErrUnsupportedExportFormat,
		)
	}

	filter := adapter.TransactionFilter{
		UserID:    input.UserID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	rows := make([]*TransactionOutput, 0)
	for page := 1; ; page++ {
		result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.TransactionPagination{Page: page, Limit: MaxPageLimit})
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for export: %w", err)
		}
		for _, tc := range result.Transactions {
			rows = append(rows, newTransactionOutput(tc.Transaction, tc.Category))
		}
		if page >= result.TotalPages {
			break
		}
	}

	content, err := uc.exporter.Export(ctx, format, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	return &ExportTransactionsOutput{
		Filename: exportFilename(input.StartDate, input.EndDate, format),
		Format:   format,
		Content:  content,
		Rows:     len(rows),
	}, nil
}

func exportFilename(start, end *time.Time, format ExportFormat) string {
	name := "transactions"
	if start != nil {
		name += "_" + start.Format("20060102")
	}
	if end != nil {
		name += "_" + end.Format("20060102")
	}
	return name + "." + string(format)
}
