// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kakeibo/backend/internal/integration/entrypoint/controller"
	"github.com/kakeibo/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                     *gin.Engine
	healthController           *controller.HealthController
	authController             *controller.AuthController
	userController             *controller.UserController
	categoryController         *controller.CategoryController
	transactionController      *controller.TransactionController
	scheduledPaymentController *controller.ScheduledPaymentController
	analyticsController        *controller.AnalyticsController
	loginRateLimiter           gin.HandlerFunc
	authMiddleware             *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
// loginRateLimiter may be nil, in which case login is not rate limited.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	scheduledPaymentController *controller.ScheduledPaymentController,
	analyticsController *controller.AnalyticsController,
	loginRateLimiter gin.HandlerFunc,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:           healthController,
		authController:             authController,
		userController:             userController,
		categoryController:         categoryController,
		transactionController:      transactionController,
		scheduledPaymentController: scheduledPaymentController,
		analyticsController:        analyticsController,
		loginRateLimiter:           loginRateLimiter,
		authMiddleware:             authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", r.healthController.Check)

		if r.authController != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				if r.loginRateLimiter != nil {
					auth.POST("/login", r.loginRateLimiter, r.authController.Login)
				} else {
					auth.POST("/login", r.authController.Login)
				}
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
			}
		}

		if r.authMiddleware == nil {
			return
		}

		protected := v1.Group("")
		protected.Use(r.authMiddleware.Authenticate())

		if r.userController != nil {
			users := protected.Group("/users/me")
			{
				users.GET("", r.userController.GetProfile)
				users.PUT("/balance", r.userController.UpdateBalance)
				users.PUT("/preferences", r.userController.UpdatePreferences)
			}
		}

		if r.categoryController != nil {
			categories := protected.Group("/categories")
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PATCH("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		if r.transactionController != nil {
			transactions := protected.Group("/transactions")
			{
				transactions.GET("", r.transactionController.List)
				transactions.GET("/export", r.transactionController.Export)
				transactions.POST("", r.transactionController.Create)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		if r.scheduledPaymentController != nil {
			payments := protected.Group("/scheduled-payments")
			{
				payments.GET("", r.scheduledPaymentController.List)
				payments.GET("/public-burden", r.scheduledPaymentController.PublicBurden)
				payments.POST("", r.scheduledPaymentController.Create)
				payments.PATCH("/:id", r.scheduledPaymentController.Update)
				payments.DELETE("/:id", r.scheduledPaymentController.Delete)
				payments.POST("/:id/complete", r.scheduledPaymentController.Complete)
			}
		}

		if r.analyticsController != nil {
			analytics := protected.Group("/analytics")
			{
				analytics.GET("", r.analyticsController.Get)
				analytics.GET("/balance", r.analyticsController.Balance)
				analytics.GET("/monthly", r.analyticsController.Monthly)
			}
		}
	}
}
