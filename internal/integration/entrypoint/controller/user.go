package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/usecase/user"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/entrypoint/dto"
	"github.com/kakeibo/backend/internal/integration/entrypoint/middleware"
)

// UserController handles the authenticated user's profile and settings.
type UserController struct {
	getProfileUseCase        *user.GetProfileUseCase
	updateBalanceUseCase     *user.UpdateBalanceUseCase
	updatePreferencesUseCase *user.UpdatePreferencesUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getProfileUseCase *user.GetProfileUseCase,
	updateBalanceUseCase *user.UpdateBalanceUseCase,
	updatePreferencesUseCase *user.UpdatePreferencesUseCase,
) *UserController {
	return &UserController{
		getProfileUseCase:        getProfileUseCase,
		updateBalanceUseCase:     updateBalanceUseCase,
		updatePreferencesUseCase: updatePreferencesUseCase,
	}
}

// GetProfile handles GET /users/me requests.
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	u, err := c.getProfileUseCase.Execute(ctx.Request.Context(), user.GetProfileInput{UserID: userID})
	if err != nil {
		c.handleUserError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// UpdateBalance handles PUT /users/me/balance requests.
func (c *UserController) UpdateBalance(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateBalanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidBalanceSetting),
		})
		return
	}

	input := user.UpdateBalanceInput{
		UserID:         userID,
		InitialBalance: req.InitialBalance,
	}
	if req.BalanceStartDate != nil && *req.BalanceStartDate != "" {
		date, err := dto.ParseDate(*req.BalanceStartDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidBalanceSetting),
			})
			return
		}
		input.BalanceStartDate = &date
	}

	u, err := c.updateBalanceUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleUserError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// UpdatePreferences handles PUT /users/me/preferences requests.
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	u, err := c.updatePreferencesUseCase.Execute(ctx.Request.Context(), user.UpdatePreferencesInput{
		UserID:           userID,
		PaymentReminders: *req.PaymentReminders,
	})
	if err != nil {
		c.handleUserError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

func (c *UserController) handleUserError(ctx *gin.Context, err error) {
	var userErr *domainerror.UserError
	if errors.As(err, &userErr) {
		status := http.StatusInternalServerError
		switch userErr.Code {
		case domainerror.ErrCodeProfileNotFound:
			status = http.StatusNotFound
		case domainerror.ErrCodeInvalidBalanceSetting:
			status = http.StatusBadRequest
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: userErr.Message,
			Code:  string(userErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// requireUser reads the authenticated user id, writing a 401 when it is absent.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses the :id path parameter, writing a 400 when it is not a uuid.
func parseIDParam(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + what + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
