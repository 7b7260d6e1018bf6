package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/infra/dependency"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the HTTP server together with the enabled background workers.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	slog.Info("Starting Kakeibo API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	redisClient, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	// A nil *redis.Client must not reach the injector as a non-nil interface.
	var limiterClient redis.Cmdable
	if redisClient != nil {
		defer redisClient.Close()
		limiterClient = redisClient
	}

	inj, err := dependency.NewInjector(cfg, database, limiterClient)
	if err != nil {
		return err
	}

	engine := inj.Router.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	var workers sync.WaitGroup
	startWorkers(workerCtx, &workers, cfg, inj)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	stopWorkers()
	workers.Wait()

	slog.Info("Server exited properly")
	return nil
}

func startWorkers(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, inj *dependency.Injector) {
	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slog.Debug("Background task started", "task", name)
			fn(ctx)
		}()
	}

	if inj.MemoryLimiter != nil {
		run("ratelimit-sweep", func(ctx context.Context) {
			inj.MemoryLimiter.Run(ctx, cfg.RateLimit.SweepInterval)
		})
	}
	if cfg.Email.WorkerEnabled {
		run("email-worker", inj.EmailWorker.Start)
	}
	if cfg.Reminder.Enabled {
		run("reminder-scheduler", inj.ReminderScheduler.Start)
	}
}
