package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn            func(ctx context.Context, task *domain.Task) error
	GetForOwnerFn       func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListForOwnerFn      func(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error)
	UpdateFn            func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn    func(ctx context.Context, id, ownerID uuid.UUID) error
	DeleteAllForOwnerFn func(ctx context.Context, ownerID uuid.UUID) error

	// Call tracking for verification
	mu                     sync.Mutex
	CreateCalls            int
	UpdateCalls            int
	DeleteForOwnerCalls    int
	DeleteAllForOwnerCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, id, ownerID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	if m.ListForOwnerFn != nil {
		return m.ListForOwnerFn(ctx, ownerID, opts)
	}
	return nil, nil
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	m.mu.Lock()
	m.DeleteForOwnerCalls++
	m.mu.Unlock()
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, id, ownerID)
	}
	return nil
}

func (m *MockTaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	m.DeleteAllForOwnerCalls++
	m.mu.Unlock()
	if m.DeleteAllForOwnerFn != nil {
		return m.DeleteAllForOwnerFn(ctx, ownerID)
	}
	return nil
}

// WithTx returns the mock itself; transactional scoping is a no-op in tests.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
