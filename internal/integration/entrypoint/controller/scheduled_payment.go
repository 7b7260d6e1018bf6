package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/usecase/scheduledpayment"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
	"github.com/kakeibo/backend/internal/integration/entrypoint/dto"
)

// ScheduledPaymentController handles scheduled payment endpoints.
type ScheduledPaymentController struct {
	listUseCase         *scheduledpayment.ListScheduledPaymentsUseCase
	createUseCase       *scheduledpayment.CreateScheduledPaymentUseCase
	updateUseCase       *scheduledpayment.UpdateScheduledPaymentUseCase
	deleteUseCase       *scheduledpayment.DeleteScheduledPaymentUseCase
	completeUseCase     *scheduledpayment.CompleteScheduledPaymentUseCase
	publicBurdenUseCase *scheduledpayment.GetPublicBurdenSummaryUseCase
}

// NewScheduledPaymentController creates a new scheduled payment controller instance.
func NewScheduledPaymentController(
	listUseCase *scheduledpayment.ListScheduledPaymentsUseCase,
	createUseCase *scheduledpayment.CreateScheduledPaymentUseCase,
	updateUseCase *scheduledpayment.UpdateScheduledPaymentUseCase,
	deleteUseCase *scheduledpayment.DeleteScheduledPaymentUseCase,
	completeUseCase *scheduledpayment.CompleteScheduledPaymentUseCase,
	publicBurdenUseCase *scheduledpayment.GetPublicBurdenSummaryUseCase,
) *ScheduledPaymentController {
	return &ScheduledPaymentController{
		listUseCase:         listUseCase,
		createUseCase:       createUseCase,
		updateUseCase:       updateUseCase,
		deleteUseCase:       deleteUseCase,
		completeUseCase:     completeUseCase,
		publicBurdenUseCase: publicBurdenUseCase,
	}
}

// List handles GET /scheduled-payments requests.
func (c *ScheduledPaymentController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := scheduledpayment.ListScheduledPaymentsInput{UserID: userID}
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := entity.ScheduledPaymentStatus(statusStr)
		if status != entity.ScheduledPaymentStatusPending && status != entity.ScheduledPaymentStatusCompleted {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid status. Must be 'pending' or 'completed'",
				Code:  string(domainerror.ErrCodeMissingScheduledFields),
			})
			return
		}
		input.Status = &status
	}
	if input.DueFrom, ok = c.dateQuery(ctx, "due_from"); !ok {
		return
	}
	if input.DueTo, ok = c.dateQuery(ctx, "due_to"); !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToScheduledPaymentListResponse(output))
}

// PublicBurden handles GET /scheduled-payments/public-burden requests.
func (c *ScheduledPaymentController) PublicBurden(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := scheduledpayment.GetPublicBurdenSummaryInput{UserID: userID}
	if input.DueFrom, ok = c.dateQuery(ctx, "due_from"); !ok {
		return
	}
	if input.DueTo, ok = c.dateQuery(ctx, "due_to"); !ok {
		return
	}

	summary, err := c.publicBurdenUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPublicBurdenSummaryResponse(summary))
}

// Create handles POST /scheduled-payments requests.
func (c *ScheduledPaymentController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateScheduledPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingScheduledFields),
		})
		return
	}

	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		c.invalidDate(ctx)
		return
	}
	categoryID, ok := c.parseCategoryID(ctx, req.CategoryID)
	if !ok {
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), scheduledpayment.CreateScheduledPaymentInput{
		UserID:          userID,
		CategoryID:      categoryID,
		EstimatedAmount: *req.EstimatedAmount,
		DueDate:         dueDate,
		Memo:            req.Memo,
	})
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToScheduledPaymentResponse(output.Payment, output.Category))
}

// Update handles PATCH /scheduled-payments/:id requests.
func (c *ScheduledPaymentController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(ctx, "scheduled payment")
	if !ok {
		return
	}

	var req dto.UpdateScheduledPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := scheduledpayment.UpdateScheduledPaymentInput{
		PaymentID:       paymentID,
		UserID:          userID,
		EstimatedAmount: req.EstimatedAmount,
		Memo:            req.Memo,
	}
	if req.DueDate != nil {
		dueDate, err := dto.ParseDate(*req.DueDate)
		if err != nil {
			c.invalidDate(ctx)
			return
		}
		input.DueDate = &dueDate
	}
	if req.CategoryID != nil {
		categoryID, ok := c.parseCategoryID(ctx, *req.CategoryID)
		if !ok {
			return
		}
		input.CategoryID = &categoryID
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToScheduledPaymentResponse(output.Payment, output.Category))
}

// Delete handles DELETE /scheduled-payments/:id requests.
func (c *ScheduledPaymentController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(ctx, "scheduled payment")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), scheduledpayment.DeleteScheduledPaymentInput{
		PaymentID: paymentID,
		UserID:    userID,
	})
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Complete handles POST /scheduled-payments/:id/complete requests. The body is optional.
func (c *ScheduledPaymentController) Complete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(ctx, "scheduled payment")
	if !ok {
		return
	}

	var req dto.CompleteScheduledPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := scheduledpayment.CompleteScheduledPaymentInput{
		PaymentID:    paymentID,
		UserID:       userID,
		ActualAmount: req.ActualAmount,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			c.invalidDate(ctx)
			return
		}
		input.Date = &date
	}

	output, err := c.completeUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleScheduledPaymentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompleteScheduledPaymentResponse(output))
}

func (c *ScheduledPaymentController) parseCategoryID(ctx *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
			Code:  string(domainerror.ErrCodeScheduledCategoryInvalid),
		})
		return uuid.Nil, false
	}
	return id, true
}

func (c *ScheduledPaymentController) dateQuery(ctx *gin.Context, key string) (*time.Time, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, true
	}
	date, err := dto.ParseDate(raw)
	if err != nil {
		c.invalidDate(ctx)
		return nil, false
	}
	return &date, true
}

func (c *ScheduledPaymentController) invalidDate(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid date format. Use YYYY-MM-DD",
		Code:  string(domainerror.ErrCodeInvalidDueDate),
	})
}

// handleScheduledPaymentError maps scheduled payment errors to HTTP responses.
func (c *ScheduledPaymentController) handleScheduledPaymentError(ctx *gin.Context, err error) {
	var schErr *domainerror.ScheduledPaymentError
	if errors.As(err, &schErr) {
		ctx.JSON(c.getStatusCodeForScheduledPaymentError(schErr.Code), dto.ErrorResponse{
			Error: schErr.Message,
			Code:  string(schErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForScheduledPaymentError maps scheduled payment error codes to HTTP status codes.
func (c *ScheduledPaymentController) getStatusCodeForScheduledPaymentError(code domainerror.ScheduledPaymentErrorCode) int {
	switch code {
	case domainerror.ErrCodeScheduledPaymentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeScheduledPaymentCompleted:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidScheduledAmount,
		domainerror.ErrCodeInvalidDueDate,
		domainerror.ErrCodeScheduledCategoryInvalid,
		domainerror.ErrCodeMissingScheduledFields,
		domainerror.ErrCodeScheduledCategoryNotExpense:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
