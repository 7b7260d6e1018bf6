// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/kakeibo/backend/internal/application/usecase/auth"
	"github.com/kakeibo/backend/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents the response for authentication endpoints.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// TokenResponse represents the response for token refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	InitialBalance   *string   `json:"initial_balance"`
	BalanceStartDate *string   `json:"balance_start_date"`
	PaymentReminders bool      `json:"payment_reminders"`
	CreatedAt        time.Time `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToUserResponse converts a user entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Name:             user.Name,
		PaymentReminders: user.PaymentReminders,
		CreatedAt:        user.CreatedAt,
	}
	if user.InitialBalance != nil {
		s := user.InitialBalance.String()
		resp.InitialBalance = &s
	}
	if user.BalanceStartDate != nil {
		s := user.BalanceStartDate.Format(DateLayout)
		resp.BalanceStartDate = &s
	}
	return resp
}

// ToAuthResponse converts auth output to an AuthResponse DTO.
func ToAuthResponse(output *auth.AuthOutput) AuthResponse {
	return AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         ToUserResponse(output.User),
	}
}
