package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors. Each wraps ErrValidation.
var (
	ErrEmptyTaskID      = validationSentinel("task ID cannot be empty")
	ErrEmptyDescription = validationSentinel("description cannot be empty")
	ErrEmptyOwnerID     = validationSentinel("task owner ID cannot be empty")
)

// Task represents a single to-do item. Every task has exactly one owner, and
// is only ever visible or mutable through that owner's authenticated context.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a task owned by the given user. Completed defaults to
// false. Returns a validation error if any field is invalid.
func NewTask(ownerID uuid.UUID, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}
