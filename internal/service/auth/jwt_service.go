package auth

import (
	"context"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// JWTService issues and validates the signed session tokens carried in the
// session cookie.
type JWTService interface {
	// GenerateToken creates a signed session token for the employee.
	// The token carries the employee's ID and role so requests can be
	// authorized without a store lookup.
	GenerateToken(ctx context.Context, employee *domain.Employee) (string, error)

	// ValidateToken validates the token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// Lifetime is how long issued tokens stay valid. The session cookie
	// uses the same value for Max-Age.
	Lifetime() time.Duration
}

// Claims is the validated content of a session token.
type Claims struct {
	EmployeeID int64       `json:"eid,omitempty"`
	Role       domain.Role `json:"role,omitempty"`
	Email      string      `json:"email,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
