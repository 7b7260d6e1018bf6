package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/persistence/model"
)

// scheduledPaymentRepository implements the adapter.ScheduledPaymentRepository interface.
type scheduledPaymentRepository struct {
	db *gorm.DB
}

// NewScheduledPaymentRepository creates a new scheduled payment repository instance.
func NewScheduledPaymentRepository(db *gorm.DB) adapter.ScheduledPaymentRepository {
	return &scheduledPaymentRepository{
		db: db,
	}
}

// Create creates a new scheduled payment.
func (r *scheduledPaymentRepository) Create(ctx context.Context, payment *entity.ScheduledPayment) error {
	return r.db.WithContext(ctx).Create(model.ScheduledPaymentFromEntity(payment)).Error
}

// FindByID retrieves a scheduled payment by its ID.
func (r *scheduledPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ScheduledPayment, error) {
	var paymentModel model.ScheduledPaymentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrScheduledPaymentNotFound
		}
		return nil, result.Error
	}
	return paymentModel.ToEntity(), nil
}

// FindByFilter lists scheduled payments with their categories ordered by due date.
func (r *scheduledPaymentRepository) FindByFilter(ctx context.Context, filter adapter.ScheduledPaymentFilter) ([]*entity.ScheduledPaymentWithCategory, error) {
	query := r.db.WithContext(ctx).Model(&model.ScheduledPaymentModel{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", startOfDay(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		query = query.Where("due_date < ?", startOfDay(*filter.DueTo).AddDate(0, 0, 1))
	}
	if filter.PublicBurden != nil {
		query = query.Where("is_public_burden = ?", *filter.PublicBurden)
	}
	if filter.ReminderUnsent {
		query = query.Where("reminder_sent_at IS NULL")
	}

	var paymentModels []model.ScheduledPaymentModel
	if err := query.Preload("Category").Order("due_date ASC, created_at ASC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.ScheduledPaymentWithCategory, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToEntityWithCategory()
	}
	return payments, nil
}

// Update saves changes to a scheduled payment. Only pending rows are written so a
// concurrent completion is never overwritten.
func (r *scheduledPaymentRepository) Update(ctx context.Context, payment *entity.ScheduledPayment) error {
	paymentModel := model.ScheduledPaymentFromEntity(payment)
	result := r.db.WithContext(ctx).
		Model(&model.ScheduledPaymentModel{}).
		Where("id = ? AND status = ?", payment.ID, string(entity.ScheduledPaymentStatusPending)).
		Select("category_id", "estimated_amount", "due_date", "memo", "is_public_burden", "updated_at").
		Updates(paymentModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrScheduledPaymentCompleted
	}
	return nil
}

// Delete removes a pending scheduled payment.
func (r *scheduledPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(entity.ScheduledPaymentStatusPending)).
		Delete(&model.ScheduledPaymentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrScheduledPaymentCompleted
	}
	return nil
}

// Complete writes the companion transaction and flips the payment to completed in
// one database transaction. The row is re-read under a row lock, and the status
// update is conditioned on pending, so two concurrent completions cannot both win.
func (r *scheduledPaymentRepository) Complete(ctx context.Context, params adapter.CompleteScheduledPaymentParams) (*entity.ScheduledPayment, *entity.Transaction, error) {
	var (
		payment     *entity.ScheduledPayment
		transaction *entity.Transaction
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paymentModel model.ScheduledPaymentModel
		result := lockForUpdate(tx).
			Preload("Category").
			Where("id = ? AND user_id = ?", params.PaymentID, params.UserID).
			First(&paymentModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.ErrScheduledPaymentNotFound
			}
			return result.Error
		}

		payment = paymentModel.ToEntity()
		if !payment.IsPending() {
			return domainerror.ErrScheduledPaymentCompleted
		}

		amount := payment.EstimatedAmount
		if params.ActualAmount != nil {
			amount = *params.ActualAmount
		}
		description := payment.Memo
		if description == "" && paymentModel.Category != nil {
			description = paymentModel.Category.Name
		}

		transaction = entity.NewTransaction(payment.UserID, payment.CategoryID, amount, description, params.Date)
		if err := tx.Create(model.TransactionFromEntity(transaction)).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		payment.Complete(transaction.ID, amount, params.CompletedAt)
		update := tx.Model(&model.ScheduledPaymentModel{}).
			Where("id = ? AND status = ?", payment.ID, string(entity.ScheduledPaymentStatusPending)).
			Updates(map[string]any{
				"status":         string(payment.Status),
				"transaction_id": payment.TransactionID,
				"actual_amount":  amount,
				"completed_at":   payment.CompletedAt,
				"updated_at":     payment.UpdatedAt,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to update scheduled payment: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return domainerror.ErrScheduledPaymentCompleted
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return payment, transaction, nil
}

// MarkReminded stamps reminder_sent_at on the given payments.
func (r *scheduledPaymentRepository) MarkReminded(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.ScheduledPaymentModel{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", at).Error
}

// lockForUpdate adds FOR UPDATE on dialects that support it. SQLite serialises
// writers on its own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
