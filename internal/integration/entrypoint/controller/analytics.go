package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kakeibo/backend/internal/application/usecase/analytics"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/entrypoint/dto"
)

// AnalyticsController serves the aggregated views of a user's ledger.
type AnalyticsController struct {
	analyticsUseCase *analytics.GetAnalyticsUseCase
	balanceUseCase   *analytics.GetBalanceUseCase
	monthlyUseCase   *analytics.GetMonthlySeriesUseCase
}

// NewAnalyticsController creates a new analytics controller instance.
func NewAnalyticsController(
	analyticsUseCase *analytics.GetAnalyticsUseCase,
	balanceUseCase *analytics.GetBalanceUseCase,
	monthlyUseCase *analytics.GetMonthlySeriesUseCase,
) *AnalyticsController {
	return &AnalyticsController{
		analyticsUseCase: analyticsUseCase,
		balanceUseCase:   balanceUseCase,
		monthlyUseCase:   monthlyUseCase,
	}
}

// Get handles GET /analytics?start_date=&end_date= requests.
func (c *AnalyticsController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := analytics.GetAnalyticsInput{UserID: userID}

	if raw := ctx.Query("start_date"); raw != "" {
		date, err := dto.ParseDate(raw)
		if err != nil {
			c.invalidDate(ctx, "start_date")
			return
		}
		input.StartDate = date
	}
	if raw := ctx.Query("end_date"); raw != "" {
		date, err := dto.ParseDate(raw)
		if err != nil {
			c.invalidDate(ctx, "end_date")
			return
		}
		input.EndDate = date
	}

	output, err := c.analyticsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAnalyticsResponse(output))
}

// Balance handles GET /analytics/balance requests.
func (c *AnalyticsController) Balance(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.balanceUseCase.Execute(ctx.Request.Context(), analytics.GetBalanceInput{UserID: userID})
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output))
}

// Monthly handles GET /analytics/monthly?months=&reference_date= requests.
func (c *AnalyticsController) Monthly(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := analytics.GetMonthlySeriesInput{UserID: userID}

	if raw := ctx.Query("months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil || months <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "months must be between 1 and 120",
				Code:  string(domainerror.ErrCodeInvalidMonths),
			})
			return
		}
		input.Months = months
	}
	if raw := ctx.Query("reference_date"); raw != "" {
		date, err := dto.ParseDate(raw)
		if err != nil {
			c.invalidDate(ctx, "reference_date")
			return
		}
		input.ReferenceDate = &date
	}

	output, err := c.monthlyUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleAnalyticsError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthlySeriesResponse(output))
}

func (c *AnalyticsController) invalidDate(ctx *gin.Context, field string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: field + " must be a date in YYYY-MM-DD format",
		Code:  string(domainerror.ErrCodeInvalidDateFormat),
	})
}

// handleAnalyticsError maps analytics errors to HTTP responses. Internal
// failures never leak their cause to the client.
func (c *AnalyticsController) handleAnalyticsError(ctx *gin.Context, err error) {
	var anlErr *domainerror.AnalyticsError
	if errors.As(err, &anlErr) && anlErr.Code != domainerror.ErrCodeAnalyticsInternalError {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: anlErr.Message,
			Code:  string(anlErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeAnalyticsInternalError),
	})
}
