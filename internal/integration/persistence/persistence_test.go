package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/infra/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.Open(&config.DatabaseConfig{Driver: db.DriverSQLite, URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(Models()...))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	user     *entity.User
	food     *entity.Category
	salary   *entity.Category
	users    adapter.UserRepository
	cats     adapter.CategoryRepository
	txns     adapter.TransactionRepository
	payments adapter.ScheduledPaymentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := newTestDB(t)
	ctx := context.Background()
	f := &fixture{
		users:    NewUserRepository(gdb),
		cats:     NewCategoryRepository(gdb),
		txns:     NewTransactionRepository(gdb),
		payments: NewScheduledPaymentRepository(gdb),
	}

	f.user = entity.NewUser("hanako@example.com", "Hanako", "hash")
	require.NoError(t, f.users.Create(ctx, f.user))
	f.food = entity.NewCategory(f.user.ID, "Food", entity.CategoryTypeExpense, "", "utensils", 0, false, nil)
	require.NoError(t, f.cats.Create(ctx, f.food))
	f.salary = entity.NewCategory(f.user.ID, "Salary", entity.CategoryTypeIncome, "", "", 1, false, nil)
	require.NoError(t, f.cats.Create(ctx, f.salary))
	return f
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("balance settings round trip", func(t *testing.T) {
		balance := decimal.RequireFromString("300000.50")
		start := day(2024, 4, 1)
		f.user.InitialBalance = &balance
		f.user.BalanceStartDate = &start
		require.NoError(t, f.users.Update(ctx, f.user))

		got, err := f.users.FindByID(ctx, f.user.ID)
		require.NoError(t, err)
		require.True(t, got.HasBalanceSettings())
		assert.True(t, balance.Equal(*got.InitialBalance))
		assert.True(t, start.Equal(got.BalanceStartDate.UTC()))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.users.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domainerror.ErrUserNotFound)
	})

	t.Run("reminder opt-in listing", func(t *testing.T) {
		users, err := f.users.FindWithPaymentReminders(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestTransactionRepository_FindViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, txn := range []*entity.Transaction{
		entity.NewTransaction(f.user.ID, f.food.ID, decimal.NewFromInt(1200), "lunch", day(2024, 6, 1)),
		entity.NewTransaction(f.user.ID, f.food.ID, decimal.NewFromInt(800), "", day(2024, 6, 30)),
		entity.NewTransaction(f.user.ID, f.salary.ID, decimal.NewFromInt(250000), "", day(2024, 6, 25)),
		entity.NewTransaction(f.user.ID, f.food.ID, decimal.NewFromInt(999), "", day(2024, 7, 1)),
	} {
		require.NoError(t, f.txns.Create(ctx, txn))
	}

	start, end := day(2024, 6, 1), day(2024, 6, 30)
	views, err := f.txns.FindViews(ctx, adapter.TransactionFilter{UserID: f.user.ID, StartDate: &start, EndDate: &end})

	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "Food", views[0].CategoryName)
	assert.Equal(t, "utensils", views[0].CategoryIcon)
	assert.Equal(t, entity.CategoryTypeIncome, views[1].CategoryType)
	assert.Equal(t, "2024-06-30", views[2].Date.Format("2006-01-02"))

	t.Run("type filter", func(t *testing.T) {
		expense := entity.CategoryTypeExpense
		views, err := f.txns.FindViews(ctx, adapter.TransactionFilter{UserID: f.user.ID, CategoryType: &expense})
		require.NoError(t, err)
		assert.Len(t, views, 3)
	})

	t.Run("paged listing", func(t *testing.T) {
		list, err := f.txns.FindByFilter(ctx, adapter.TransactionFilter{UserID: f.user.ID}, adapter.TransactionPagination{Page: 1, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), list.Total)
		assert.Equal(t, 2, list.TotalPages)
		require.Len(t, list.Transactions, 3)
		assert.NotNil(t, list.Transactions[0].Category)
	})
}

func TestScheduledPaymentRepository_Complete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	payment := entity.NewScheduledPayment(f.user.ID, f.food.ID, decimal.NewFromInt(5000), day(2024, 6, 20), "", false)
	require.NoError(t, f.payments.Create(ctx, payment))

	completed, txn, err := f.payments.Complete(ctx, adapter.CompleteScheduledPaymentParams{
		PaymentID:   payment.ID,
		UserID:      f.user.ID,
		Date:        day(2024, 6, 21),
		CompletedAt: time.Now().UTC(),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ScheduledPaymentStatusCompleted, completed.Status)
	assert.Equal(t, "Food", txn.Description)
	assert.True(t, decimal.NewFromInt(5000).Equal(txn.Amount))

	stored, err := f.payments.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TransactionID)
	assert.Equal(t, txn.ID, *stored.TransactionID)

	t.Run("second completion is refused", func(t *testing.T) {
		_, _, err := f.payments.Complete(ctx, adapter.CompleteScheduledPaymentParams{PaymentID: payment.ID, UserID: f.user.ID, Date: day(2024, 6, 21)})
		assert.ErrorIs(t, err, domainerror.ErrScheduledPaymentCompleted)
	})

	t.Run("completed payments cannot be edited or deleted", func(t *testing.T) {
		assert.ErrorIs(t, f.payments.Update(ctx, stored), domainerror.ErrScheduledPaymentCompleted)
		assert.ErrorIs(t, f.payments.Delete(ctx, payment.ID), domainerror.ErrScheduledPaymentCompleted)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		_, _, err := f.payments.Complete(ctx, adapter.CompleteScheduledPaymentParams{PaymentID: payment.ID, UserID: uuid.New()})
		assert.ErrorIs(t, err, domainerror.ErrScheduledPaymentNotFound)
	})

	t.Run("deleting the transaction unlinks the payment", func(t *testing.T) {
		require.NoError(t, f.txns.Delete(ctx, txn.ID))
		stored, err := f.payments.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.TransactionID)
	})
}

func TestScheduledPaymentRepository_ConcurrentComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	payment := entity.NewScheduledPayment(f.user.ID, f.food.ID, decimal.NewFromInt(5000), day(2024, 6, 20), "rent", false)
	require.NoError(t, f.payments.Create(ctx, payment))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.payments.Complete(ctx, adapter.CompleteScheduledPaymentParams{
				PaymentID: payment.ID, UserID: f.user.ID, Date: day(2024, 6, 20), CompletedAt: time.Now().UTC(),
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	list, err := f.txns.FindByFilter(ctx, adapter.TransactionFilter{UserID: f.user.ID}, adapter.TransactionPagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestScheduledPaymentRepository_FindByFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	later := entity.NewScheduledPayment(f.user.ID, f.food.ID, decimal.NewFromInt(1), day(2024, 7, 1), "", true)
	sooner := entity.NewScheduledPayment(f.user.ID, f.food.ID, decimal.NewFromInt(2), day(2024, 6, 1), "", false)
	require.NoError(t, f.payments.Create(ctx, later))
	require.NoError(t, f.payments.Create(ctx, sooner))

	all, err := f.payments.FindByFilter(ctx, adapter.ScheduledPaymentFilter{UserID: f.user.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, sooner.ID, all[0].Payment.ID)
	assert.Equal(t, "Food", all[0].Category.Name)

	burden := true
	onlyBurden, err := f.payments.FindByFilter(ctx, adapter.ScheduledPaymentFilter{UserID: f.user.ID, PublicBurden: &burden})
	require.NoError(t, err)
	require.Len(t, onlyBurden, 1)
	assert.Equal(t, later.ID, onlyBurden[0].Payment.ID)

	require.NoError(t, f.payments.MarkReminded(ctx, []uuid.UUID{sooner.ID}, time.Now().UTC()))
	unsent, err := f.payments.FindByFilter(ctx, adapter.ScheduledPaymentFilter{UserID: f.user.ID, ReminderUnsent: true})
	require.NoError(t, err)
	require.Len(t, unsent, 1)
	assert.Equal(t, later.ID, unsent[0].Payment.ID)
}

func TestCategoryRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	child := entity.NewCategory(f.user.ID, "Groceries", entity.CategoryTypeExpense, "", "", 0, false, &f.food.ID)
	require.NoError(t, f.cats.Create(ctx, child))
	require.NoError(t, f.txns.Create(ctx, entity.NewTransaction(f.user.ID, f.food.ID, decimal.NewFromInt(100), "", day(2024, 6, 1))))
	require.NoError(t, f.payments.Create(ctx, entity.NewScheduledPayment(f.user.ID, f.food.ID, decimal.NewFromInt(100), day(2024, 6, 2), "", false)))

	hasChildren, err := f.cats.HasChildren(ctx, f.food.ID)
	require.NoError(t, err)
	assert.True(t, hasChildren)

	exists, err := f.cats.ExistsByNameAndUser(ctx, "FOOD", entity.CategoryTypeExpense, f.user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, f.cats.Delete(ctx, f.food.ID))

	_, err = f.cats.FindByID(ctx, f.food.ID)
	assert.ErrorIs(t, err, domainerror.ErrCategoryNotFound)

	detached, err := f.cats.FindByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)

	views, err := f.txns.FindViews(ctx, adapter.TransactionFilter{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Empty(t, views)

	payments, err := f.payments.FindByFilter(ctx, adapter.ScheduledPaymentFilter{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Empty(t, payments)

	expense := entity.CategoryTypeExpense
	remaining, err := f.cats.FindByUser(ctx, f.user.ID, &expense)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Groceries", remaining[0].Name)
}
