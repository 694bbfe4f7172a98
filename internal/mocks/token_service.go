package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	IssueTokenFn  func(ctx context.Context, userID uuid.UUID) (string, error)
	VerifyTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default response values
	Token  string
	Claims *auth.Claims
	Err    error
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockTokenService) VerifyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.VerifyTokenFn != nil {
		return m.VerifyTokenFn(ctx, tokenString)
	}
	return m.Claims, m.Err
}
