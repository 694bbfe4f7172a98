package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
)

// TaskSortField names a column tasks may be sorted by. Only the listed
// fields are accepted; anything else is rejected before reaching SQL.
type TaskSortField string

// Accepted sort fields for task listings.
const (
	TaskSortCreatedAt   TaskSortField = "createdAt"
	TaskSortUpdatedAt   TaskSortField = "updatedAt"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

// ValidTaskSortField reports whether f is an accepted sort field.
func ValidTaskSortField(f TaskSortField) bool {
	switch f {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDescription, TaskSortCompleted:
		return true
	}
	return false
}

// TaskListOptions carries the optional filter, pagination and ordering
// parameters of a task listing. Zero values mean "no constraint".
type TaskListOptions struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// Limit caps the number of returned tasks; 0 means no limit.
	Limit int

	// Skip drops that many tasks from the start of the result.
	Skip int

	// SortBy orders the result; empty means creation order.
	SortBy TaskSortField

	// SortDesc reverses the ordering when true.
	SortDesc bool
}

// TaskStore defines the interface for task persistence. Every read and
// mutation is scoped to an owner: a task belonging to another user behaves
// exactly like a missing task.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by ID, visible only to its owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different user.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListForOwner returns the owner's tasks, filtered and ordered per opts.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, opts TaskListOptions) ([]*domain.Task, error)

	// Update persists changes to an owned task's mutable fields.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different user.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes an owned task.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different user.
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error

	// DeleteAllForOwner removes every task owned by the user. Used by the
	// account-deletion cascade. Deleting zero tasks is not an error.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
