package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for issuing and verifying the signed
// bearer tokens that represent user sessions. A user may hold several live
// tokens at once (one per device); each remains valid until revoked or, if
// a lifetime is configured, until it expires.
type TokenService interface {
	// IssueToken creates a signed session token bound to the user's ID.
	// Returns the opaque token string or an error if signing fails.
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)

	// VerifyToken checks the token's signature and payload and extracts the
	// claims. Returns ErrInvalidToken for a bad signature or malformed
	// payload, and ErrExpiredToken when a configured lifetime has passed.
	//
	// Signature validity alone does not make a session live: callers must
	// additionally check the token against the user's current token list.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
