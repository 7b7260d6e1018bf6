package persistence

import "github.com/kakeibo/backend/internal/integration/persistence/model"

// Models lists every table owned by the persistence layer in migration order.
func Models() []any {
	return []any{
		&model.UserModel{},
		&model.RefreshTokenModel{},
		&model.CategoryModel{},
		&model.TransactionModel{},
		&model.ScheduledPaymentModel{},
		&model.EmailQueueModel{},
	}
}
