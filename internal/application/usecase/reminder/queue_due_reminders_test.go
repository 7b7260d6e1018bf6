package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter/adaptertest"
	"github.com/kakeibo/backend/internal/domain/entity"
)

func TestQueueDueRemindersUseCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	setup := func() (*adaptertest.Store, *entity.User) {
		store := adaptertest.NewStore()
		user := store.AddUser(entity.NewUser("hanako@example.com", "Hanako", "hash"))
		tax := store.AddCategory(entity.NewCategory(user.ID, "Resident tax", entity.CategoryTypeExpense, "", "", 0, true, nil))

		store.AddScheduledPayment(entity.NewScheduledPayment(user.ID, tax.ID, decimal.NewFromInt(12000), day(12), "June installment", true))
		store.AddScheduledPayment(entity.NewScheduledPayment(user.ID, tax.ID, decimal.NewFromInt(8000), day(13), "", true))
		store.AddScheduledPayment(entity.NewScheduledPayment(user.ID, tax.ID, decimal.NewFromInt(5000), day(30), "", true))
		return store, user
	}

	newUseCase := func(store *adaptertest.Store) *QueueDueRemindersUseCase {
		return NewQueueDueRemindersUseCase(
			store.UserRepository(),
			store.ScheduledPaymentRepository(),
			store.EmailQueueRepository(),
			adaptertest.FixedClock{At: now},
			3,
		)
	}

	t.Run("queues one job for payments inside the window", func(t *testing.T) {
		store, user := setup()

		out, err := newUseCase(store).Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, out.UsersNotified)
		assert.Equal(t, 2, out.PaymentsReminded)
		require.Len(t, store.EmailJobs, 1)
		for _, job := range store.EmailJobs {
			assert.Equal(t, entity.TemplatePaymentReminder, job.TemplateType)
			assert.Equal(t, user.Email, job.RecipientEmail)
			assert.Equal(t, "20000", job.TemplateData["total"])
			assert.Equal(t, "2 scheduled payments are due soon", job.Subject)
		}
	})

	t.Run("second run does not remind again", func(t *testing.T) {
		store, _ := setup()
		uc := newUseCase(store)

		_, err := uc.Execute(ctx)
		require.NoError(t, err)
		out, err := uc.Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, out.PaymentsReminded)
		assert.Len(t, store.EmailJobs, 1)
	})

	t.Run("skips users who opted out", func(t *testing.T) {
		store, user := setup()
		user.PaymentReminders = false

		out, err := newUseCase(store).Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, out.UsersNotified)
		assert.Empty(t, store.EmailJobs)
	})

	t.Run("skips completed payments", func(t *testing.T) {
		store, _ := setup()
		for _, p := range store.ScheduledPayments {
			if p.DueDate.Equal(day(12)) {
				p.Status = entity.ScheduledPaymentStatusCompleted
			}
		}

		out, err := newUseCase(store).Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, out.PaymentsReminded)
	})

	t.Run("user listing failure", func(t *testing.T) {
		store, _ := setup()
		store.Err = errors.New("db down")

		_, err := newUseCase(store).Execute(ctx)

		assert.Error(t, err)
	})
}
