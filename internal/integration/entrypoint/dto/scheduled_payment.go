package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kakeibo/backend/internal/application/usecase/analytics"
	"github.com/kakeibo/backend/internal/application/usecase/scheduledpayment"
	"github.com/kakeibo/backend/internal/domain/entity"
)

// CreateScheduledPaymentRequest represents the request body for scheduling a payment.
type CreateScheduledPaymentRequest struct {
	CategoryID      string           `json:"category_id" binding:"required"`
	EstimatedAmount *decimal.Decimal `json:"estimated_amount" binding:"required"`
	DueDate         string           `json:"due_date" binding:"required"`
	Memo            string           `json:"memo" binding:"max=255"`
}

// UpdateScheduledPaymentRequest represents the request body for updating a pending payment.
type UpdateScheduledPaymentRequest struct {
	CategoryID      *string          `json:"category_id,omitempty"`
	EstimatedAmount *decimal.Decimal `json:"estimated_amount,omitempty"`
	DueDate         *string          `json:"due_date,omitempty"`
	Memo            *string          `json:"memo,omitempty" binding:"omitempty,max=255"`
}

// CompleteScheduledPaymentRequest represents the optional body for completing a payment.
type CompleteScheduledPaymentRequest struct {
	ActualAmount *decimal.Decimal `json:"actual_amount,omitempty"`
	Date         *string          `json:"date,omitempty"`
}

// ScheduledPaymentResponse represents a scheduled payment in API responses.
type ScheduledPaymentResponse struct {
	ID              string                       `json:"id"`
	CategoryID      string                       `json:"category_id"`
	Category        *TransactionCategoryResponse `json:"category,omitempty"`
	EstimatedAmount string                       `json:"estimated_amount"`
	ActualAmount    *string                      `json:"actual_amount"`
	DueDate         string                       `json:"due_date"`
	Memo            string                       `json:"memo"`
	Status          string                       `json:"status"`
	IsPublicBurden  bool                         `json:"is_public_burden"`
	TransactionID   *string                      `json:"transaction_id"`
	CompletedAt     *time.Time                   `json:"completed_at"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// ScheduledPaymentListResponse represents the response for listing scheduled payments.
type ScheduledPaymentListResponse struct {
	ScheduledPayments []ScheduledPaymentResponse `json:"scheduled_payments"`
}

// CompleteScheduledPaymentResponse carries the completed payment and the transaction it produced.
type CompleteScheduledPaymentResponse struct {
	ScheduledPayment ScheduledPaymentResponse `json:"scheduled_payment"`
	TransactionID    string                   `json:"transaction_id"`
	Amount           string                   `json:"amount"`
	Date             string                   `json:"date"`
}

// PublicBurdenMonthResponse is one month of the public-burden breakdown.
type PublicBurdenMonthResponse struct {
	Month     string `json:"month"`
	Pending   string `json:"pending"`
	Completed string `json:"completed"`
}

// PublicBurdenSummaryResponse represents the public-burden summary.
type PublicBurdenSummaryResponse struct {
	TotalPending   string                      `json:"total_pending"`
	TotalCompleted string                      `json:"total_completed"`
	Total          string                      `json:"total"`
	PendingCount   int                         `json:"pending_count"`
	CompletedCount int                         `json:"completed_count"`
	Months         []PublicBurdenMonthResponse `json:"months"`
}

// ToScheduledPaymentResponse converts a payment and its optional category to a response DTO.
func ToScheduledPaymentResponse(p *entity.ScheduledPayment, c *entity.Category) ScheduledPaymentResponse {
	resp := ScheduledPaymentResponse{
		ID:              p.ID.String(),
		CategoryID:      p.CategoryID.String(),
		EstimatedAmount: p.EstimatedAmount.String(),
		DueDate:         p.DueDate.Format(DateLayout),
		Memo:            p.Memo,
		Status:          string(p.Status),
		IsPublicBurden:  p.IsPublicBurden,
		CompletedAt:     p.CompletedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.ActualAmount != nil {
		s := p.ActualAmount.String()
		resp.ActualAmount = &s
	}
	if p.TransactionID != nil {
		s := p.TransactionID.String()
		resp.TransactionID = &s
	}
	if c != nil {
		resp.Category = &TransactionCategoryResponse{
			ID:    c.ID.String(),
			Name:  c.Name,
			Color: c.Color,
			Icon:  c.Icon,
			Type:  string(c.Type),
		}
	}
	return resp
}

// ToScheduledPaymentListResponse converts a list output to a response DTO.
func ToScheduledPaymentListResponse(output *scheduledpayment.ListScheduledPaymentsOutput) ScheduledPaymentListResponse {
	payments := make([]ScheduledPaymentResponse, 0, len(output.Payments))
	for _, p := range output.Payments {
		payments = append(payments, ToScheduledPaymentResponse(p.Payment, p.Category))
	}
	return ScheduledPaymentListResponse{ScheduledPayments: payments}
}

// ToCompleteScheduledPaymentResponse converts a completion output to a response DTO.
func ToCompleteScheduledPaymentResponse(output *scheduledpayment.CompleteScheduledPaymentOutput) CompleteScheduledPaymentResponse {
	return CompleteScheduledPaymentResponse{
		ScheduledPayment: ToScheduledPaymentResponse(output.Payment, nil),
		TransactionID:    output.Transaction.ID.String(),
		Amount:           output.Transaction.Amount.String(),
		Date:             output.Transaction.Date.Format(DateLayout),
	}
}

// ToPublicBurdenSummaryResponse converts the summary to a response DTO.
func ToPublicBurdenSummaryResponse(s *analytics.PublicBurdenSummary) PublicBurdenSummaryResponse {
	months := make([]PublicBurdenMonthResponse, 0, len(s.Months))
	for _, m := range s.Months {
		months = append(months, PublicBurdenMonthResponse{
			Month:     m.Month,
			Pending:   m.Pending.String(),
			Completed: m.Completed.String(),
		})
	}
	return PublicBurdenSummaryResponse{
		TotalPending:   s.TotalPending.String(),
		TotalCompleted: s.TotalCompleted.String(),
		Total:          s.Total.String(),
		PendingCount:   s.PendingCount,
		CompletedCount: s.CompletedCount,
		Months:         months,
	}
}
