// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/application/usecase/analytics"
	"github.com/kakeibo/backend/internal/application/usecase/auth"
	"github.com/kakeibo/backend/internal/application/usecase/category"
	"github.com/kakeibo/backend/internal/application/usecase/reminder"
	"github.com/kakeibo/backend/internal/application/usecase/scheduledpayment"
	"github.com/kakeibo/backend/internal/application/usecase/transaction"
	"github.com/kakeibo/backend/internal/application/usecase/user"
	"github.com/kakeibo/backend/internal/infra/db"
	"github.com/kakeibo/backend/internal/infra/server/router"
	"github.com/kakeibo/backend/internal/integration/adapters"
	"github.com/kakeibo/backend/internal/integration/email"
	"github.com/kakeibo/backend/internal/integration/email/templates"
	"github.com/kakeibo/backend/internal/integration/entrypoint/controller"
	"github.com/kakeibo/backend/internal/integration/entrypoint/middleware"
	"github.com/kakeibo/backend/internal/integration/export"
	"github.com/kakeibo/backend/internal/integration/persistence"
	"github.com/kakeibo/backend/internal/integration/ratelimit"
	reminderjob "github.com/kakeibo/backend/internal/integration/reminder"
)

// e2eLoginLimit keeps the login limiter out of the way of automated suites.
const e2eLoginLimit = 1000

// Injector holds all application dependencies.
type Injector struct {
	Config   *config.Config
	Database *db.Database
	Router   *router.Router

	// QueueReminders is also run directly by the one-shot remind command.
	QueueReminders    *reminder.QueueDueRemindersUseCase
	EmailWorker       *email.Worker
	ReminderScheduler *reminderjob.Scheduler
	// MemoryLimiter is set when the in-memory backend is selected; its sweep
	// loop must be started by the caller.
	MemoryLimiter *ratelimit.MemoryLimiter
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil when the rate limiter uses the memory backend.
func NewInjector(cfg *config.Config, database *db.Database, redisClient redis.Cmdable) (*Injector, error) {
	gormDB := database.DB()
	clock := adapter.SystemClock{}

	// Create repositories
	userRepo := persistence.NewUserRepository(gormDB)
	tokenRepo := persistence.NewTokenRepository(gormDB)
	categoryRepo := persistence.NewCategoryRepository(gormDB)
	transactionRepo := persistence.NewTransactionRepository(gormDB)
	paymentRepo := persistence.NewScheduledPaymentRepository(gormDB)
	emailQueueRepo := persistence.NewEmailQueueRepository(gormDB)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(adapters.DefaultBcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create user use cases
	getProfileUseCase := user.NewGetProfileUseCase(userRepo)
	updateBalanceUseCase := user.NewUpdateBalanceUseCase(userRepo)
	updatePreferencesUseCase := user.NewUpdatePreferencesUseCase(userRepo)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)
	exportTransactionsUseCase := transaction.NewExportTransactionsUseCase(transactionRepo, export.NewExporter())

	// Create scheduled payment use cases
	listPaymentsUseCase := scheduledpayment.NewListScheduledPaymentsUseCase(paymentRepo)
	createPaymentUseCase := scheduledpayment.NewCreateScheduledPaymentUseCase(paymentRepo, categoryRepo)
	updatePaymentUseCase := scheduledpayment.NewUpdateScheduledPaymentUseCase(paymentRepo, categoryRepo)
	deletePaymentUseCase := scheduledpayment.NewDeleteScheduledPaymentUseCase(paymentRepo)
	completePaymentUseCase := scheduledpayment.NewCompleteScheduledPaymentUseCase(paymentRepo, clock)
	publicBurdenUseCase := scheduledpayment.NewGetPublicBurdenSummaryUseCase(paymentRepo)

	// Create analytics use cases
	getAnalyticsUseCase := analytics.NewGetAnalyticsUseCase(transactionRepo)
	getBalanceUseCase := analytics.NewGetBalanceUseCase(userRepo, transactionRepo)
	getMonthlySeriesUseCase := analytics.NewGetMonthlySeriesUseCase(categoryRepo, transactionRepo, clock)

	// Create controllers
	healthController := controller.NewHealthController(database)
	authController := controller.NewAuthController(registerUseCase, loginUseCase, refreshTokenUseCase, logoutUseCase)
	userController := controller.NewUserController(getProfileUseCase, updateBalanceUseCase, updatePreferencesUseCase)
	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)
	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		exportTransactionsUseCase,
	)
	scheduledPaymentController := controller.NewScheduledPaymentController(
		listPaymentsUseCase,
		createPaymentUseCase,
		updatePaymentUseCase,
		deletePaymentUseCase,
		completePaymentUseCase,
		publicBurdenUseCase,
	)
	analyticsController := controller.NewAnalyticsController(getAnalyticsUseCase, getBalanceUseCase, getMonthlySeriesUseCase)

	inj := &Injector{
		Config:   cfg,
		Database: database,
	}

	// Create middleware
	var loginRateLimiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter, err := inj.newRateLimiter(redisClient)
		if err != nil {
			return nil, err
		}
		policy := adapter.RateLimitConfig{Limit: cfg.RateLimit.LoginLimit, Window: cfg.RateLimit.Window}
		if cfg.IsTest() {
			policy.Limit = e2eLoginLimit
		}
		loginRateLimiter = middleware.RateLimit(limiter, policy)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		authController,
		userController,
		categoryController,
		transactionController,
		scheduledPaymentController,
		analyticsController,
		loginRateLimiter,
		authMiddleware,
	)

	// Reminders and the e-mail worker
	inj.QueueReminders = reminder.NewQueueDueRemindersUseCase(userRepo, paymentRepo, emailQueueRepo, clock, cfg.Reminder.LookaheadDays)
	inj.ReminderScheduler = reminderjob.NewScheduler(inj.QueueReminders, cfg.Reminder.Interval)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	inj.EmailWorker = email.NewWorker(emailQueueRepo, newEmailSender(cfg.Email), renderer, clock, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		AppBaseURL:   cfg.Email.AppBaseURL,
	})

	return inj, nil
}

func (inj *Injector) newRateLimiter(redisClient redis.Cmdable) (adapter.RateLimiter, error) {
	switch inj.Config.RateLimit.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("rate limit backend is redis but no redis client is configured")
		}
		return ratelimit.NewRedisLimiter(redisClient), nil
	case "memory":
		inj.MemoryLimiter = ratelimit.NewMemoryLimiter()
		return inj.MemoryLimiter, nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", inj.Config.RateLimit.Backend)
	}
}

func newEmailSender(cfg config.EmailConfig) adapter.EmailSender {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, reminder e-mails will only be logged")
		return &email.LogSender{}
	}
	return email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
}
