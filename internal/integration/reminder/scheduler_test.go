package reminder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kakeibo/backend/internal/application/usecase/reminder"
)

type countingQueuer struct {
	calls atomic.Int32
	err   error
}

func (q *countingQueuer) Execute(context.Context) (*reminder.QueueDueRemindersOutput, error) {
	q.calls.Add(1)
	if q.err != nil {
		return nil, q.err
	}
	return &reminder.QueueDueRemindersOutput{UsersNotified: 1, PaymentsReminded: 2}, nil
}

func TestNewScheduler_DefaultInterval(t *testing.T) {
	s := NewScheduler(&countingQueuer{}, 0)
	assert.Equal(t, time.Hour, s.interval)
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		q := &countingQueuer{}
		NewScheduler(q, time.Minute).RunOnce(context.Background())
		assert.Equal(t, int32(1), q.calls.Load())
	})

	t.Run("error is logged not propagated", func(t *testing.T) {
		q := &countingQueuer{err: errors.New("db down")}
		NewScheduler(q, time.Minute).RunOnce(context.Background())
		assert.Equal(t, int32(1), q.calls.Load())
	})
}

func TestScheduler_Start(t *testing.T) {
	q := &countingQueuer{}
	s := NewScheduler(q, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return q.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
