// Package reminder queues e-mail reminders for scheduled payments that are about to fall due.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
)

// DefaultLookaheadDays is used when the caller passes a non-positive window.
const DefaultLookaheadDays = 3

// QueueDueRemindersOutput reports what one run queued.
type QueueDueRemindersOutput struct {
	UsersNotified    int
	PaymentsReminded int
}

// QueueDueRemindersUseCase turns pending, unreminded payments into payment_reminder email jobs.
type QueueDueRemindersUseCase struct {
	userRepo      adapter.UserRepository
	paymentRepo   adapter.ScheduledPaymentRepository
	emailQueue    adapter.EmailQueueRepository
	clock         adapter.Clock
	lookaheadDays int
}

// NewQueueDueRemindersUseCase creates a new QueueDueRemindersUseCase instance.
func NewQueueDueRemindersUseCase(
	userRepo adapter.UserRepository,
	paymentRepo adapter.ScheduledPaymentRepository,
	emailQueue adapter.EmailQueueRepository,
	clock adapter.Clock,
	lookaheadDays int,
) *QueueDueRemindersUseCase {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	return &QueueDueRemindersUseCase{
		userRepo:      userRepo,
		paymentRepo:   paymentRepo,
		emailQueue:    emailQueue,
		clock:         clock,
		lookaheadDays: lookaheadDays,
	}
}

// Execute queues at most one email per user per run. A failure for one user is
// logged and does not stop the others; their payments stay unreminded and are
// picked up by the next run.
func (uc *QueueDueRemindersUseCase) Execute(ctx context.Context) (*QueueDueRemindersOutput, error) {
	users, err := uc.userRepo.FindWithPaymentReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with reminders: %w", err)
	}

	now := uc.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	until := today.AddDate(0, 0, uc.lookaheadDays)
	pending := entity.ScheduledPaymentStatusPending

	out := &QueueDueRemindersOutput{}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		payments, err := uc.paymentRepo.FindByFilter(ctx, adapter.ScheduledPaymentFilter{
			UserID:         user.ID,
			Status:         &pending,
			DueTo:          &until,
			ReminderUnsent: true,
		})
		if err != nil {
			slog.Warn("Failed to list due payments", "userID", user.ID, "error", err)
			continue
		}
		if len(payments) == 0 {
			continue
		}

		job := entity.NewEmailJob(
			entity.TemplatePaymentReminder,
			user.Email,
			user.Name,
			reminderSubject(len(payments)),
			reminderData(user, payments),
		)
		if err := uc.emailQueue.Create(ctx, job); err != nil {
			slog.Warn("Failed to queue payment reminder", "userID", user.ID, "error", err)
			continue
		}

		ids := make([]uuid.UUID, 0, len(payments))
		for _, p := range payments {
			ids = append(ids, p.Payment.ID)
		}
		if err := uc.paymentRepo.MarkReminded(ctx, ids, now); err != nil {
			slog.Warn("Failed to mark payments reminded", "userID", user.ID, "error", err)
			continue
		}

		out.UsersNotified++
		out.PaymentsReminded += len(ids)
	}

	slog.Info("Payment reminders queued",
		"users", out.UsersNotified,
		"payments", out.PaymentsReminded,
	)
	return out, nil
}

func reminderSubject(count int) string {
	if count == 1 {
		return "1 scheduled payment is due soon"
	}
	return fmt.Sprintf("%d scheduled payments are due soon", count)
}

func reminderData(user *entity.User, payments []*entity.ScheduledPaymentWithCategory) map[string]any {
	total := decimal.Zero
	items := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		total = total.Add(p.Payment.EstimatedAmount)
		items = append(items, map[string]any{
			"category": categoryName,
			"memo":     p.Payment.Memo,
			"amount":   p.Payment.EstimatedAmount.String(),
			"due_date": p.Payment.DueDate.Format("2006-01-02"),
		})
	}
	return map[string]any{
		"name":     user.Name,
		"payments": items,
		"total":    total.String(),
	}
}
