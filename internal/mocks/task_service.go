package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MockTaskService implements service.TaskService for handler testing.
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)
	GetTaskFn    func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListTasksFn  func(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, task *domain.Task) error
	DeleteTaskFn func(ctx context.Context, id, ownerID uuid.UUID) error
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, description, completed)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id, ownerID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, opts)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, task *domain.Task) error {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, task)
	}
	return nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id, ownerID)
	}
	return nil
}
