package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testEmployee() *domain.Employee {
	return &domain.Employee{ID: 42, Role: domain.RoleManager, Email: "grace@example.com"}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", SessionLifetime: time.Hour})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
		assert.Error(t, err)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, SessionLifetime: 8 * time.Hour})
		require.NoError(t, err)
		assert.Equal(t, 8*time.Hour, svc.Lifetime())
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newJWTServiceWithClock(testSecret, time.Hour, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), testEmployee())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.EmployeeID)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_RequiresSavedEmployee(t *testing.T) {
	t.Parallel()

	svc := newJWTServiceWithClock(testSecret, time.Hour, time.Now)
	_, err := svc.GenerateToken(context.Background(), &domain.Employee{Role: domain.RoleAdmin})
	assert.Error(t, err)
	_, err = svc.GenerateToken(context.Background(), nil)
	assert.Error(t, err)
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newJWTServiceWithClock(testSecret, time.Hour, func() time.Time { return fixedTime })
	token, err := issuer.GenerateToken(context.Background(), testEmployee())
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			svc:     issuer,
			token:   "",
			wantErr: ErrMissingToken,
		},
		{
			name:    "malformed token",
			svc:     issuer,
			token:   "not-a-jwt",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			svc:     newJWTServiceWithClock("wrong-secret-that-is-long-enough-for-testing", time.Hour, func() time.Time { return fixedTime }),
			token:   token,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "expired beyond clock skew",
			svc:     newJWTServiceWithClock(testSecret, time.Hour, func() time.Time { return fixedTime.Add(2 * time.Hour) }),
			token:   token,
			wantErr: ErrExpiredToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_WithinClockSkew(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newJWTServiceWithClock(testSecret, time.Hour, func() time.Time { return fixedTime })
	token, err := issuer.GenerateToken(context.Background(), testEmployee())
	require.NoError(t, err)

	late := newJWTServiceWithClock(testSecret, time.Hour, func() time.Time {
		return fixedTime.Add(time.Hour + time.Minute)
	})
	_, err = late.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateToken_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwtCustomClaims{
		EmployeeID: 7,
		Role:       "Superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newJWTServiceWithClock(testSecret, time.Hour, time.Now)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwtCustomClaims{
		EmployeeID: 7,
		Role:       string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newJWTServiceWithClock(testSecret, time.Hour, time.Now)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
