package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. Every query carries the owner in its
// WHERE clause, so another user's task is indistinguishable from a missing
// one at this layer already.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of store.TaskStore.
func NewTaskStore(db store.DBTX) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}
	return nil
}

// GetForOwner implements store.TaskStore.GetForOwner
func (s *TaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return &task, nil
}

// sortColumns maps the accepted sort fields onto real column names.
// Sort input never reaches SQL directly.
var sortColumns = map[store.TaskSortField]string{
	store.TaskSortCreatedAt:   "created_at",
	store.TaskSortUpdatedAt:   "updated_at",
	store.TaskSortDescription: "description",
	store.TaskSortCompleted:   "completed",
}

// buildListQuery renders the listing SQL for the given options. The owner
// is always $1; a completed filter, when present, binds as $2.
func buildListQuery(opts store.TaskListOptions) (string, []any, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, description, completed, created_at, updated_at FROM tasks WHERE user_id = $1`)

	args := make([]any, 0, 2)
	if opts.Completed != nil {
		b.WriteString(` AND completed = $2`)
		args = append(args, *opts.Completed)
	}

	column := "created_at"
	if opts.SortBy != "" {
		mapped, ok := sortColumns[opts.SortBy]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown sort field %q", store.ErrInvalidEntity, opts.SortBy)
		}
		column = mapped
	}
	b.WriteString(` ORDER BY ` + column)
	if opts.SortDesc {
		b.WriteString(` DESC`)
	} else {
		b.WriteString(` ASC`)
	}

	if opts.Limit > 0 {
		b.WriteString(` LIMIT ` + strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		b.WriteString(` OFFSET ` + strconv.Itoa(opts.Skip))
	}

	return b.String(), args, nil
}

// ListForOwner implements store.TaskStore.ListForOwner
func (s *TaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	query, extraArgs, err := buildListQuery(opts)
	if err != nil {
		return nil, err
	}

	args := append([]any{ownerID}, extraArgs...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", MapError(err))
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", MapError(err))
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner
func (s *TaskStore) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteAllForOwner implements store.TaskStore.DeleteAllForOwner
func (s *TaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1`, ownerID); err != nil {
		return fmt.Errorf("failed to delete tasks for owner: %w", MapError(err))
	}
	return nil
}
