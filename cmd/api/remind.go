package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/infra/dependency"
)

func remindCmd() *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Queue reminder e-mails for payments that are due soon",
		Long: `Queue payment_reminder e-mails once, for every user with reminders enabled.
With --send the queued e-mails are delivered before the command exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.Load()
			// The limiter is irrelevant for a one-shot run.
			cfg.RateLimit.Enabled = false

			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			inj, err := dependency.NewInjector(cfg, database, nil)
			if err != nil {
				return err
			}

			out, err := inj.QueueReminders.Execute(ctx)
			if err != nil {
				return fmt.Errorf("failed to queue reminders: %w", err)
			}
			slog.Info("Reminders queued",
				"users", out.UsersNotified,
				"payments", out.PaymentsReminded,
			)

			if send {
				sent := inj.EmailWorker.ProcessNow(ctx)
				slog.Info("Reminder e-mails processed", "jobs", sent)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "deliver queued e-mails immediately")
	return cmd
}
