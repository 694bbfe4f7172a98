package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MockUserService implements service.UserService for handler testing.
type MockUserService struct {
	RegisterFn          func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)
	LoginFn             func(ctx context.Context, email, password string) (*domain.User, string, error)
	FindByCredentialsFn func(ctx context.Context, email, password string) (*domain.User, error)
	LogoutFn            func(ctx context.Context, userID uuid.UUID, token string) error
	LogoutAllFn         func(ctx context.Context, userID uuid.UUID) error
	UpdateFn            func(ctx context.Context, user *domain.User) error
	DeleteAccountFn     func(ctx context.Context, user *domain.User) error
	SetAvatarFn         func(ctx context.Context, userID uuid.UUID, avatar []byte) error
	GetAvatarFn         func(ctx context.Context, userID uuid.UUID) ([]byte, error)
	ClearAvatarFn       func(ctx context.Context, userID uuid.UUID) error
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password, age)
	}
	return nil, "", nil
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, "", nil
}

func (m *MockUserService) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	if m.FindByCredentialsFn != nil {
		return m.FindByCredentialsFn(ctx, email, password)
	}
	return nil, nil
}

func (m *MockUserService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, userID, token)
	}
	return nil
}

func (m *MockUserService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if m.LogoutAllFn != nil {
		return m.LogoutAllFn(ctx, userID)
	}
	return nil
}

func (m *MockUserService) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *MockUserService) DeleteAccount(ctx context.Context, user *domain.User) error {
	if m.DeleteAccountFn != nil {
		return m.DeleteAccountFn(ctx, user)
	}
	return nil
}

func (m *MockUserService) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, userID, avatar)
	}
	return nil
}

func (m *MockUserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}
	return nil, store.ErrAvatarNotFound
}

func (m *MockUserService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	if m.ClearAvatarFn != nil {
		return m.ClearAvatarFn(ctx, userID)
	}
	return nil
}
