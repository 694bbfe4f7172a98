package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// TaskService provides owner-scoped task operations. Every call takes the
// authenticated owner explicitly; tasks of other users are reported as
// store.ErrTaskNotFound, never as a permission error.
type TaskService interface {
	// CreateTask creates a task owned by the caller.
	CreateTask(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)

	// GetTask retrieves one owned task.
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListTasks returns the caller's tasks, filtered and ordered per opts.
	ListTasks(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error)

	// UpdateTask persists changes to an owned task's mutable fields.
	UpdateTask(ctx context.Context, task *domain.Task) error

	// DeleteTask removes one owned task.
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask implements TaskService.CreateTask
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description)
	if err != nil {
		return nil, err
	}
	task.Completed = completed

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"owner_id", ownerID)
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *TaskServiceImpl) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetForOwner(ctx, id, ownerID)
}

// ListTasks implements TaskService.ListTasks
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	return s.taskStore.ListForOwner(ctx, ownerID, opts)
}

// UpdateTask implements TaskService.UpdateTask
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.UpdatedAt = time.Now().UTC()
	return s.taskStore.Update(ctx, task)
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.taskStore.DeleteForOwner(ctx, id, ownerID)
}
