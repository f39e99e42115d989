package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-key-at-least-32-chars",
		RefreshSecret:          "refresh-secret-key-at-least-32-ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "retailcore-test",
		MaxRefreshCount:        3,
	})
}

func testTokenInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:       uuid.New(),
		BranchID:     uuid.New(),
		Username:     "cashier1",
		RoleCode:     "sales_staff",
		Capabilities: []string{"sales:create", "catalog:read"},
	}
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	t.Run("access claims carry the full actor", func(t *testing.T) {
		claims, err := service.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.BranchID.String(), claims.BranchID)
		assert.Equal(t, "cashier1", claims.Username)
		assert.Equal(t, "sales_staff", claims.RoleCode)
		assert.Equal(t, input.Capabilities, claims.Capabilities)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh claims are minimal", func(t *testing.T) {
		claims, err := service.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Empty(t, claims.Capabilities)
		assert.Empty(t, claims.RoleCode)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, 0, claims.RefreshCount)
	})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	service := newTestJWTService()

	t.Run("rejects a refresh token on the access path", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "some-other-secret-key-32-chars-xx",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "retailcore-test",
			MaxRefreshCount:        3,
		})
		pair, err := other.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := NewJWTService(config.JWTConfig{
			Secret:                 "access-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "retailcore-test",
			MaxRefreshCount:        3,
		})
		pair, err := shortLived.GenerateTokenPair(testTokenInput())
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	service := newTestJWTService()

	t.Run("rotates the refresh token and increments the count", func(t *testing.T) {
		input := testTokenInput()
		pair, err := service.GenerateTokenPair(input)
		require.NoError(t, err)

		rotated, err := service.RefreshTokenPair(pair.RefreshToken, input)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		claims, err := service.ValidateRefreshToken(rotated.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.RefreshCount)
	})

	t.Run("carries fresh capabilities into the new access token", func(t *testing.T) {
		input := testTokenInput()
		pair, err := service.GenerateTokenPair(input)
		require.NoError(t, err)

		input.Capabilities = []string{"sales:create"}
		rotated, err := service.RefreshTokenPair(pair.RefreshToken, input)
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"sales:create"}, claims.Capabilities)
	})

	t.Run("stops after the rotation limit", func(t *testing.T) {
		input := testTokenInput()
		pair, err := service.GenerateTokenPair(input)
		require.NoError(t, err)

		refreshToken := pair.RefreshToken
		for i := 0; i < 3; i++ {
			rotated, err := service.RefreshTokenPair(refreshToken, input)
			require.NoError(t, err)
			refreshToken = rotated.RefreshToken
		}

		_, err = service.RefreshTokenPair(refreshToken, input)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects a user mismatch", func(t *testing.T) {
		input := testTokenInput()
		pair, err := service.GenerateTokenPair(input)
		require.NoError(t, err)

		other := input
		other.UserID = uuid.New()
		_, err = service.RefreshTokenPair(pair.RefreshToken, other)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		input := testTokenInput()
		pair, err := service.GenerateTokenPair(input)
		require.NoError(t, err)

		_, err = service.RefreshTokenPair(pair.AccessToken, input)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_ToActor(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)
	claims, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	actor, err := claims.ToActor()
	require.NoError(t, err)

	assert.Equal(t, input.UserID, actor.UserID)
	assert.Equal(t, input.BranchID, actor.BranchID)
	assert.Equal(t, "sales_staff", actor.RoleCode)
	assert.True(t, actor.HasCapability("sales:create"))
	assert.False(t, actor.HasCapability("inventory:adjust"))
}

func TestClaims_CapabilityChecks(t *testing.T) {
	claims := &Claims{Capabilities: []string{"sales:create", "catalog:read"}}

	assert.True(t, claims.HasCapability("sales:create"))
	assert.False(t, claims.HasCapability("sales:cancel"))
	assert.True(t, claims.HasAnyCapability("sales:cancel", "catalog:read"))
	assert.False(t, claims.HasAnyCapability("sales:cancel", "inventory:adjust"))
}
