package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend. Users live in the users table; their
// session tokens live one-per-row in user_tokens so that every token-list
// mutation is a single atomic statement.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a new PostgreSQL implementation of store.UserStore.
// It accepts a database connection or transaction managed by the caller.
func NewUserStore(db store.DBTX) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, hashed_password, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Age,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}
	return nil
}

// userColumns is the scan list shared by the user lookups.
const userColumns = `id, name, email, hashed_password, age, created_at, updated_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", MapError(err))
	}
	return &user, nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)))
}

// GetByIDAndToken implements store.UserStore.GetByIDAndToken
// The join against user_tokens is what makes logout effective: a signed
// token whose row has been deleted no longer resolves a user.
func (s *UserStore) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.hashed_password, u.age, u.created_at, u.updated_at
		FROM users u
		INNER JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.token = $2
	`
	return scanUser(s.db.QueryRowContext(ctx, query, id, token))
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, hashed_password = $3, age = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Age,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return fmt.Errorf("failed to update user: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// AddToken implements store.UserStore.AddToken
func (s *UserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_tokens (user_id, token, created_at)
		VALUES ($1, $2, now())
	`
	if _, err := s.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to add token: %w", MapError(err))
	}
	return nil
}

// RemoveToken implements store.UserStore.RemoveToken
func (s *UserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	result, err := s.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// ClearTokens implements store.UserStore.ClearTokens
// Clearing zero tokens is not an error.
func (s *UserStore) ClearTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", MapError(err))
	}
	return nil
}

// UpdateAvatar implements store.UserStore.UpdateAvatar
func (s *UserStore) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, avatar, userID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// GetAvatar implements store.UserStore.GetAvatar
func (s *UserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var avatar []byte
	err := s.db.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1`, userID).Scan(&avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get avatar: %w", MapError(err))
	}
	if len(avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return avatar, nil
}

// ClearAvatar implements store.UserStore.ClearAvatar
func (s *UserStore) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users SET avatar = NULL, updated_at = now()
		WHERE id = $1 AND avatar IS NOT NULL
	`
	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear avatar: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrAvatarNotFound)
}
