package adapters

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

type memoryTokens struct {
	saved   map[string]bool
	revoked map[string]bool
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{saved: map[string]bool{}, revoked: map[string]bool{}}
}

func (m *memoryTokens) SaveRefreshToken(_ context.Context, token string, _ uuid.UUID, _ time.Time) error {
	m.saved[token] = true
	return nil
}

func (m *memoryTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return m.saved[token] && !m.revoked[token], nil
}

func (m *memoryTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	m.revoked[token] = true
	return nil
}

func (m *memoryTokens) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryTokens()
	svc := NewTokenService("secret", time.Minute, time.Hour, repo)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "taro@example.com")
	require.NoError(t, err)
	assert.True(t, repo.saved[pair.RefreshToken])

	t.Run("access token round trip", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "taro@example.com", claims.Email)
	})

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
		_, err = svc.ValidateRefreshToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
	})

	t.Run("pairs minted in the same second differ", func(t *testing.T) {
		other, err := svc.GenerateTokenPair(ctx, userID, "taro@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, other.RefreshToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenService("other", time.Minute, time.Hour, repo).ValidateAccessToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenService("secret", -time.Minute, time.Hour, repo)
		p, err := expired.GenerateTokenPair(ctx, userID, "taro@example.com")
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(ctx, p.AccessToken)
		assert.ErrorIs(t, err, domainerror.ErrExpiredToken)
	})

	t.Run("revocation", func(t *testing.T) {
		require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))
		valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("kakeibo2024")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassword(hash, "kakeibo2024"))
	assert.Error(t, svc.VerifyPassword(hash, "kakeibo2025"))

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "kakeibo2024", false},
		{"too short", "ab1", true},
		{"too long", strings.Repeat("a1", 40), true},
		{"no digit", "onlyletters", true},
		{"no letter", "1234567890", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
