package email

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter/adaptertest"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/email/templates"
)

func newTestWorker(t *testing.T, store *adaptertest.Store, sender *LogSender, now time.Time) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	return NewWorker(store.EmailQueueRepository(), sender, renderer, adaptertest.FixedClock{At: now},
		WorkerConfig{BatchSize: 5, AppBaseURL: "https://kakeibo.example"})
}

func reminderJob(now time.Time) *entity.EmailJob {
	job := entity.NewEmailJob(entity.TemplatePaymentReminder, "hana@example.com", "Hana", "1 scheduled payment is due soon",
		map[string]any{
			"name":  "Hana",
			"total": "12000",
			"payments": []any{
				map[string]any{"category": "Insurance", "memo": "car", "amount": "12000", "due_date": "2026-10-18"},
			},
		})
	job.ScheduledAt = now.Add(-time.Minute)
	return job
}

func TestWorker_ProcessNow(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	t.Run("sends pending reminder and marks it sent", func(t *testing.T) {
		store := adaptertest.NewStore()
		sender := &LogSender{Record: true}
		job := reminderJob(now)
		require.NoError(t, store.EmailQueueRepository().Create(context.Background(), job))

		processed := newTestWorker(t, store, sender, now).ProcessNow(context.Background())

		assert.Equal(t, 1, processed)
		require.Len(t, sender.Sent, 1)
		assert.Equal(t, "hana@example.com", sender.Sent[0].To)
		assert.Contains(t, sender.Sent[0].HTML, "Insurance")
		assert.Contains(t, sender.Sent[0].Text, "https://kakeibo.example")

		stored := store.EmailJobs[job.ID]
		assert.Equal(t, entity.EmailStatusSent, stored.Status)
		assert.Equal(t, "log-1", stored.ProviderID)
		require.NotNil(t, stored.ProcessedAt)
	})

	t.Run("skips jobs scheduled in the future", func(t *testing.T) {
		store := adaptertest.NewStore()
		sender := &LogSender{Record: true}
		job := reminderJob(now)
		job.ScheduledAt = now.Add(time.Hour)
		require.NoError(t, store.EmailQueueRepository().Create(context.Background(), job))

		assert.Equal(t, 0, newTestWorker(t, store, sender, now).ProcessNow(context.Background()))
		assert.Empty(t, sender.Sent)
	})

	t.Run("temporary failure reschedules the job", func(t *testing.T) {
		store := adaptertest.NewStore()
		sender := &LogSender{Record: true, Err: fmt.Errorf("%w: 503", domainerror.ErrEmailSendFailed)}
		job := reminderJob(now)
		require.NoError(t, store.EmailQueueRepository().Create(context.Background(), job))

		newTestWorker(t, store, sender, now).ProcessNow(context.Background())

		stored := store.EmailJobs[job.ID]
		assert.Equal(t, entity.EmailStatusPending, stored.Status)
		assert.Equal(t, 1, stored.Attempts)
		assert.Equal(t, now.Add(time.Minute), stored.ScheduledAt)
	})

	t.Run("permanent failure fails the job", func(t *testing.T) {
		store := adaptertest.NewStore()
		sender := &LogSender{Record: true, Err: fmt.Errorf("%w: 422", domainerror.ErrPermanentEmailFailure)}
		job := reminderJob(now)
		require.NoError(t, store.EmailQueueRepository().Create(context.Background(), job))

		newTestWorker(t, store, sender, now).ProcessNow(context.Background())

		stored := store.EmailJobs[job.ID]
		assert.Equal(t, entity.EmailStatusFailed, stored.Status)
		assert.Contains(t, stored.LastError, "422")
	})

	t.Run("unknown template fails permanently", func(t *testing.T) {
		store := adaptertest.NewStore()
		sender := &LogSender{Record: true}
		job := reminderJob(now)
		job.TemplateType = "welcome"
		require.NoError(t, store.EmailQueueRepository().Create(context.Background(), job))

		newTestWorker(t, store, sender, now).ProcessNow(context.Background())

		assert.Empty(t, sender.Sent)
		assert.Equal(t, entity.EmailStatusFailed, store.EmailJobs[job.ID].Status)
	})

	t.Run("queue error processes nothing", func(t *testing.T) {
		store := adaptertest.NewStore()
		store.Err = errors.New("db down")

		assert.Equal(t, 0, newTestWorker(t, store, &LogSender{}, now).ProcessNow(context.Background()))
	})
}

func TestReminderItems(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{name: "typed slice", raw: []map[string]any{{"category": "Tax"}, {"category": "Rent"}}, want: 2},
		{name: "decoded json", raw: []any{map[string]any{"category": "Tax"}, "junk"}, want: 1},
		{name: "missing", raw: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, reminderItems(tt.raw), tt.want)
		})
	}
}

func TestIsPermanentError(t *testing.T) {
	assert.True(t, isPermanentError(errors.New("422 validation_error: invalid `to` field")))
	assert.True(t, isPermanentError(errors.New("401 unauthorized")))
	assert.False(t, isPermanentError(errors.New("500 internal server error")))
	assert.False(t, isPermanentError(errors.New("connection reset")))
}
