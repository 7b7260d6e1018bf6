package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	result *adapter.RateLimitResult
	err    error
	seen   []string
}

func (s *stubLimiter) Check(_ context.Context, identifier string, _ adapter.RateLimitConfig) (*adapter.RateLimitResult, error) {
	s.seen = append(s.seen, identifier)
	return s.result, s.err
}

func serve(handler gin.HandlerFunc, header http.Header) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/auth/login", handler, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	policy := adapter.RateLimitConfig{Limit: 5, Window: time.Minute}

	t.Run("allowed", func(t *testing.T) {
		limiter := &stubLimiter{result: &adapter.RateLimitResult{Allowed: true, Remaining: 4}}
		w := serve(RateLimit(limiter, policy), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"192.0.2.1:/auth/login"}, limiter.seen)
	})

	t.Run("rejected", func(t *testing.T) {
		limiter := &stubLimiter{result: &adapter.RateLimitResult{Allowed: false, RetryAfter: 1500 * time.Millisecond}}
		w := serve(RateLimit(limiter, policy), nil)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), string(domainerror.ErrCodeRateLimited))
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		w := serve(RateLimit(limiter, policy), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

type stubTokens struct {
	adapter.TokenService
	claims *adapter.TokenClaims
	err    error
}

func (s stubTokens) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return s.claims, s.err
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		header   string
		tokens   stubTokens
		wantCode int
		wantErr  domainerror.AuthErrorCode
	}{
		{"missing header", "", stubTokens{}, http.StatusUnauthorized, domainerror.ErrCodeMissingToken},
		{"wrong scheme", "Basic abc", stubTokens{}, http.StatusUnauthorized, domainerror.ErrCodeMissingToken},
		{"expired", "Bearer abc", stubTokens{err: domainerror.ErrExpiredToken}, http.StatusUnauthorized, domainerror.ErrCodeExpiredToken},
		{"invalid", "Bearer abc", stubTokens{err: domainerror.ErrInvalidToken}, http.StatusUnauthorized, domainerror.ErrCodeInvalidToken},
		{"valid", "Bearer abc", stubTokens{claims: &adapter.TokenClaims{UserID: userID, Email: "a@example.com"}}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			var gotID uuid.UUID
			r.GET("/me", NewAuthMiddleware(tt.tokens).Authenticate(), func(c *gin.Context) {
				gotID, _ = GetUserIDFromContext(c)
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Contains(t, w.Body.String(), string(tt.wantErr))
			} else {
				assert.Equal(t, userID, gotID)
			}
		})
	}
}
