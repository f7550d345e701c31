// Package auth provides session token and password services.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cookie and header names carrying the session token and its anti-forgery
// value.
const (
	// SessionCookieName is the HttpOnly cookie holding the signed JWT.
	SessionCookieName = "access_token"

	// CSRFCookieName is the client-readable cookie exposing the csrf claim.
	CSRFCookieName = "csrf_token"

	// CSRFHeaderName is the anti-forgery header required on mutating calls.
	CSRFHeaderName = "X-CSRF-Token"
)

// JWTService defines operations for managing JWT session tokens.
// Tokens are carried in an HttpOnly cookie; the embedded CSRF value is
// additionally exposed through a readable cookie so clients can replay it
// in the anti-forgery header on state-changing calls (double submit).
type JWTService interface {
	// GenerateToken creates a signed JWT session token for the user.
	// Returns the token string and the CSRF value embedded in it, or an
	// error if token generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (token string, csrf string, err error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the session tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// CSRF is the anti-forgery value that must accompany mutating requests.
	CSRF string `json:"csrf,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
