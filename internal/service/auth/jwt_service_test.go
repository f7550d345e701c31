package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func newTestService(t *testing.T, lifetimeMinutes int) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: lifetimeMinutes,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	return impl
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, 60)
	userID := uuid.New()

	token, csrf, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, csrf)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, csrf, claims.CSRF, "CSRF claim must round-trip")
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestCSRFValuesAreUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, 60)
	userID := uuid.New()

	_, csrf1, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	_, csrf2, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, csrf1, csrf2)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, 60)
	userID := uuid.New()

	issued := time.Now().Add(-2 * time.Hour)
	svc.timeFunc = func() time.Time { return issued }

	token, _, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	// Back to real time: the token expired an hour ago, well past the
	// allowed clock skew.
	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, 60)
	userID := uuid.New()

	// Expired one minute ago, inside the two-minute skew allowance.
	issued := time.Now().Add(-61 * time.Minute)
	svc.timeFunc = func() time.Time { return issued }

	token, _, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	svc := newTestService(t, 60)
	token, _, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "another-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 60)

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
