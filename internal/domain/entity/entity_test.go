package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledPayment_Complete(t *testing.T) {
	p := NewScheduledPayment(uuid.New(), uuid.New(), decimal.NewFromInt(12000), time.Now(), "", true)
	require.True(t, p.IsPending())
	assert.True(t, p.PaidAmount().Equal(decimal.NewFromInt(12000)))

	txID := uuid.New()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p.Complete(txID, decimal.NewFromInt(11800), at)

	assert.False(t, p.IsPending())
	assert.Equal(t, ScheduledPaymentStatusCompleted, p.Status)
	assert.Equal(t, txID, *p.TransactionID)
	assert.Equal(t, at, *p.CompletedAt)
	assert.True(t, p.PaidAmount().Equal(decimal.NewFromInt(11800)))
}

func TestUser_HasBalanceSettings(t *testing.T) {
	u := NewUser("a@example.com", "A", "hash")
	assert.False(t, u.HasBalanceSettings())

	amount := decimal.NewFromInt(100000)
	u.InitialBalance = &amount
	assert.False(t, u.HasBalanceSettings())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u.BalanceStartDate = &start
	assert.True(t, u.HasBalanceSettings())
}

func TestEmailJob_MarkFailed(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("transient failure is rescheduled with backoff", func(t *testing.T) {
		job := NewEmailJob(TemplatePaymentReminder, "a@example.com", "A", "s", nil)
		job.MarkFailed(errors.New("timeout"), false, now)

		assert.Equal(t, EmailStatusPending, job.Status)
		assert.Equal(t, 1, job.Attempts)
		assert.Equal(t, now.Add(time.Minute), job.ScheduledAt)
		assert.False(t, job.IsReadyToProcess(now))
		assert.True(t, job.IsReadyToProcess(now.Add(time.Minute)))
	})

	t.Run("permanent failure stops retries", func(t *testing.T) {
		job := NewEmailJob(TemplatePaymentReminder, "a@example.com", "A", "s", nil)
		job.MarkFailed(errors.New("invalid recipient"), true, now)

		assert.Equal(t, EmailStatusFailed, job.Status)
		require.NotNil(t, job.ProcessedAt)
	})

	t.Run("exhausted attempts fail the job", func(t *testing.T) {
		job := NewEmailJob(TemplatePaymentReminder, "a@example.com", "A", "s", nil)
		for i := 0; i < DefaultEmailMaxAttempts; i++ {
			job.MarkFailed(errors.New("timeout"), false, now)
		}
		assert.Equal(t, EmailStatusFailed, job.Status)
		assert.Equal(t, DefaultEmailMaxAttempts, job.Attempts)
	})
}

func TestCategoryType_IsValid(t *testing.T) {
	assert.True(t, CategoryTypeIncome.IsValid())
	assert.True(t, CategoryTypeExpense.IsValid())
	assert.False(t, CategoryType("transfer").IsValid())
}
