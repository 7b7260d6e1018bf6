package scheduledpayment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter/adaptertest"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

type paymentFixture struct {
	store    *adaptertest.Store
	userID   uuid.UUID
	tax      *entity.Category
	food     *entity.Category
	salary   *entity.Category
	clock    adaptertest.FixedClock
	dueDate  time.Time
	estimate decimal.Decimal
}

func newPaymentFixture() *paymentFixture {
	store := adaptertest.NewStore()
	userID := uuid.New()
	return &paymentFixture{
		store:    store,
		userID:   userID,
		tax:      store.AddCategory(entity.NewCategory(userID, "Resident tax", entity.CategoryTypeExpense, "", "", 0, true, nil)),
		food:     store.AddCategory(entity.NewCategory(userID, "Food", entity.CategoryTypeExpense, "", "", 0, false, nil)),
		salary:   store.AddCategory(entity.NewCategory(userID, "Salary", entity.CategoryTypeIncome, "", "", 0, false, nil)),
		clock:    adaptertest.FixedClock{At: time.Date(2025, 6, 20, 14, 30, 0, 0, time.UTC)},
		dueDate:  time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		estimate: decimal.NewFromInt(45000),
	}
}

func (f *paymentFixture) schedule(t *testing.T, category *entity.Category, memo string) *entity.ScheduledPayment {
	t.Helper()
	uc := NewCreateScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.store.CategoryRepository())
	out, err := uc.Execute(context.Background(), CreateScheduledPaymentInput{
		UserID: f.userID, CategoryID: category.ID, EstimatedAmount: f.estimate, DueDate: f.dueDate, Memo: memo,
	})
	require.NoError(t, err)
	return out.Payment
}

func scheduledCode(t *testing.T, err error) domainerror.ScheduledPaymentErrorCode {
	t.Helper()
	var spErr *domainerror.ScheduledPaymentError
	require.ErrorAs(t, err, &spErr)
	return spErr.Code
}

func TestCreateScheduledPaymentUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots public burden flag", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.tax, "")

		assert.True(t, payment.IsPublicBurden)
		assert.Equal(t, entity.ScheduledPaymentStatusPending, payment.Status)
	})

	t.Run("income category is refused", func(t *testing.T) {
		f := newPaymentFixture()
		uc := NewCreateScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.store.CategoryRepository())

		_, err := uc.Execute(ctx, CreateScheduledPaymentInput{
			UserID: f.userID, CategoryID: f.salary.ID, EstimatedAmount: f.estimate, DueDate: f.dueDate,
		})

		assert.Equal(t, domainerror.ErrCodeScheduledCategoryNotExpense, scheduledCode(t, err))
	})

	t.Run("non-positive amount is refused", func(t *testing.T) {
		f := newPaymentFixture()
		uc := NewCreateScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.store.CategoryRepository())

		_, err := uc.Execute(ctx, CreateScheduledPaymentInput{
			UserID: f.userID, CategoryID: f.food.ID, EstimatedAmount: decimal.Zero, DueDate: f.dueDate,
		})

		assert.Equal(t, domainerror.ErrCodeInvalidScheduledAmount, scheduledCode(t, err))
	})
}

func TestCompleteScheduledPaymentUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to estimate, today and category name", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.tax, "")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)

		out, err := uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})

		require.NoError(t, err)
		assert.Equal(t, entity.ScheduledPaymentStatusCompleted, out.Payment.Status)
		assert.Equal(t, out.Transaction.ID, *out.Payment.TransactionID)
		assert.True(t, out.Transaction.Amount.Equal(f.estimate))
		assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), out.Transaction.Date)
		assert.Equal(t, "Resident tax", out.Transaction.Description)
		assert.Equal(t, f.tax.ID, out.Transaction.CategoryID)
		assert.Len(t, f.store.Transactions, 1)
	})

	t.Run("actual amount, date and memo win", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.tax, "first installment")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)
		actual := decimal.NewFromInt(44800)
		paidOn := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)

		out, err := uc.Execute(ctx, CompleteScheduledPaymentInput{
			PaymentID: payment.ID, UserID: f.userID, ActualAmount: &actual, Date: &paidOn,
		})

		require.NoError(t, err)
		assert.True(t, out.Transaction.Amount.Equal(actual))
		assert.True(t, out.Payment.ActualAmount.Equal(actual))
		assert.Equal(t, paidOn, out.Transaction.Date)
		assert.Equal(t, "first installment", out.Transaction.Description)
	})

	t.Run("second completion is refused", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.food, "")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)

		_, err := uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})
		require.NoError(t, err)
		_, err = uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})

		assert.Equal(t, domainerror.ErrCodeScheduledPaymentCompleted, scheduledCode(t, err))
		assert.Len(t, f.store.Transactions, 1)
	})

	t.Run("concurrent completions create one transaction", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.food, "")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID}); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Len(t, f.store.Transactions, 1)
	})

	t.Run("other user's payment is not found", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.food, "")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)

		_, err := uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: uuid.New()})

		assert.Equal(t, domainerror.ErrCodeScheduledPaymentNotFound, scheduledCode(t, err))
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newPaymentFixture()
		payment := f.schedule(t, f.food, "")
		uc := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock)
		f.store.Err = errors.New("disk full")

		_, err := uc.Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})

		require.Error(t, err)
		assert.Empty(t, f.store.Transactions)
	})
}

func TestCompletedPaymentsAreImmutable(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	payment := f.schedule(t, f.food, "")
	_, err := NewCompleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.clock).
		Execute(ctx, CompleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})
	require.NoError(t, err)

	memo := "changed"
	_, err = NewUpdateScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.store.CategoryRepository()).
		Execute(ctx, UpdateScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID, Memo: &memo})
	assert.Equal(t, domainerror.ErrCodeScheduledPaymentCompleted, scheduledCode(t, err))

	err = NewDeleteScheduledPaymentUseCase(f.store.ScheduledPaymentRepository()).
		Execute(ctx, DeleteScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID})
	assert.Equal(t, domainerror.ErrCodeScheduledPaymentCompleted, scheduledCode(t, err))
}

func TestUpdateScheduledPaymentUseCase_RefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	payment := f.schedule(t, f.food, "")
	require.False(t, payment.IsPublicBurden)

	out, err := NewUpdateScheduledPaymentUseCase(f.store.ScheduledPaymentRepository(), f.store.CategoryRepository()).
		Execute(ctx, UpdateScheduledPaymentInput{PaymentID: payment.ID, UserID: f.userID, CategoryID: &f.tax.ID})

	require.NoError(t, err)
	assert.True(t, out.Payment.IsPublicBurden)
	assert.Equal(t, f.tax.ID, out.Payment.CategoryID)
}

func TestListAndPublicBurdenSummary(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	f.schedule(t, f.tax, "")
	f.schedule(t, f.food, "")

	list, err := NewListScheduledPaymentsUseCase(f.store.ScheduledPaymentRepository()).
		Execute(ctx, ListScheduledPaymentsInput{UserID: f.userID})
	require.NoError(t, err)
	assert.Len(t, list.Payments, 2)

	summary, err := NewGetPublicBurdenSummaryUseCase(f.store.ScheduledPaymentRepository()).
		Execute(ctx, GetPublicBurdenSummaryInput{UserID: f.userID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PendingCount)
	assert.True(t, summary.TotalPending.Equal(f.estimate))
}
