package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByIDAndTokenFn func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
	AddTokenFn        func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveTokenFn     func(ctx context.Context, userID uuid.UUID, token string) error
	ClearTokensFn     func(ctx context.Context, userID uuid.UUID) error
	UpdateAvatarFn    func(ctx context.Context, userID uuid.UUID, avatar []byte) error
	GetAvatarFn       func(ctx context.Context, userID uuid.UUID) ([]byte, error)
	ClearAvatarFn     func(ctx context.Context, userID uuid.UUID) error

	// Call tracking for verification
	mu               sync.Mutex
	CreateCalls      int
	UpdateCalls      int
	DeleteCalls      int
	AddTokenCalls    int
	RemoveTokenCalls int
	ClearTokensCalls int
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	if m.GetByIDAndTokenFn != nil {
		return m.GetByIDAndTokenFn(ctx, id, token)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	m.AddTokenCalls++
	m.mu.Unlock()
	if m.AddTokenFn != nil {
		return m.AddTokenFn(ctx, userID, token)
	}
	return nil
}

func (m *MockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	m.RemoveTokenCalls++
	m.mu.Unlock()
	if m.RemoveTokenFn != nil {
		return m.RemoveTokenFn(ctx, userID, token)
	}
	return nil
}

func (m *MockUserStore) ClearTokens(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	m.ClearTokensCalls++
	m.mu.Unlock()
	if m.ClearTokensFn != nil {
		return m.ClearTokensFn(ctx, userID)
	}
	return nil
}

func (m *MockUserStore) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, userID, avatar)
	}
	return nil
}

func (m *MockUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}
	return nil, store.ErrAvatarNotFound
}

func (m *MockUserStore) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	if m.ClearAvatarFn != nil {
		return m.ClearAvatarFn(ctx, userID)
	}
	return nil
}

// WithTx returns the mock itself; transactional scoping is a no-op in tests.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
