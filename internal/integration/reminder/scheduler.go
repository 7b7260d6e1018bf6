// Package reminder runs the payment reminder queueing on a fixed interval.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/kakeibo/backend/internal/application/usecase/reminder"
)

// Queuer is the part of the reminder use case the scheduler drives.
type Queuer interface {
	Execute(ctx context.Context) (*reminder.QueueDueRemindersOutput, error)
}

// Scheduler periodically queues reminder e-mails.
type Scheduler struct {
	queuer   Queuer
	interval time.Duration
}

// NewScheduler creates a scheduler. A non-positive interval falls back to one hour.
func NewScheduler(queuer Queuer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{queuer: queuer, interval: interval}
}

// Start runs once immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Reminder scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder scheduler shutting down")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single queueing pass and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	out, err := s.queuer.Execute(ctx)
	if err != nil {
		slog.Error("Failed to queue payment reminders", "error", err)
		return
	}
	if out.PaymentsReminded > 0 {
		slog.Info("Queued payment reminders",
			"users", out.UsersNotified,
			"payments", out.PaymentsReminded,
		)
	}
}
