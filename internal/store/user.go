package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including the
// per-user session-token list and the avatar blob.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password; plaintext never reaches the store layer.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDAndToken retrieves a user only if the given session token is
	// currently present in that user's token list. This is the lookup the
	// auth middleware performs: a cryptographically valid token whose user
	// has since logged out must not resolve.
	// Returns ErrUserNotFound when no matching user/token pair exists.
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)

	// Update modifies an existing user's profile fields. The caller provides
	// a complete user object with HashedPassword already set.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email is already taken.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Tasks are cascade-deleted by the service
	// layer before this call; the row-level FK is a backstop only.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToken appends a session token to the user's token list.
	AddToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveToken deletes exactly one session token from the user's token
	// list. Returns ErrTokenNotFound if the token is not in the list.
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error

	// ClearTokens revokes every session token for the user.
	ClearTokens(ctx context.Context, userID uuid.UUID) error

	// UpdateAvatar replaces the user's stored avatar blob.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error

	// GetAvatar returns the user's avatar blob.
	// Returns ErrAvatarNotFound if the user exists but has no avatar, and
	// ErrUserNotFound if the user does not exist.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// ClearAvatar removes the user's stored avatar.
	// Returns ErrAvatarNotFound if there is nothing to clear.
	ClearAvatar(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a UserStore bound to the provided transaction so that
	// multiple operations can run atomically. The transaction is created
	// and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
