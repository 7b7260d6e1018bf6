package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves a transaction with its category by ID.
func (r *transactionRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntityWithCategory(), nil
}

// applyFilter adds the filter conditions. Columns are qualified so the same
// conditions work on the plain table and on the categories join.
func applyFilter(query *gorm.DB, filter adapter.TransactionFilter) *gorm.DB {
	query = query.Where("transactions.user_id = ?", filter.UserID)

	if filter.StartDate != nil {
		query = query.Where("transactions.date >= ?", startOfDay(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("transactions.date < ?", startOfDay(*filter.EndDate).AddDate(0, 0, 1))
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("transactions.category_id IN ?", filter.CategoryIDs)
	}
	if filter.CategoryType != nil {
		query = query.Where(
			"transactions.category_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).
				Model(&model.CategoryModel{}).
				Select("id").
				Where("type = ?", string(*filter.CategoryType)),
		)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(transactions.description) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&model.TransactionModel{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var transactionModels []model.TransactionModel
	result := query.
		Preload("Category").
		Order("transactions.date DESC, transactions.created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.TransactionWithCategory, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntityWithCategory()
	}

	return &adapter.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// FindViews joins transactions with their categories into the analytics projection.
func (r *transactionRepository) FindViews(ctx context.Context, filter adapter.TransactionFilter) ([]entity.TransactionView, error) {
	query := r.db.WithContext(ctx).
		Table("transactions").
		Select(`transactions.id, transactions.amount, transactions.date, transactions.category_id,
			categories.name AS category_name, categories.type AS category_type, categories.icon AS category_icon`).
		Joins("JOIN categories ON categories.id = transactions.category_id")

	var rows []model.TransactionViewRow
	if err := applyFilter(query, filter).
		Order("transactions.date ASC, transactions.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load transaction views: %w", err)
	}

	views := make([]entity.TransactionView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToEntity()
	}
	return views, nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(model.TransactionFromEntity(transaction)).Error
}

// Delete removes a transaction and unlinks any scheduled payment it completed.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ScheduledPaymentModel{}).
			Where("transaction_id = ?", id).
			Update("transaction_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink scheduled payment: %w", err)
		}
		return tx.Delete(&model.TransactionModel{}, "id = ?", id).Error
	})
}
