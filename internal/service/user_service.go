package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/events"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// UserService provides registration, authentication and profile operations.
type UserService interface {
	// Register creates a new user from the given profile fields, hashes the
	// password, issues a first session token, and emits a registration
	// event. Returns the created user and the token.
	Register(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)

	// Login verifies credentials and issues a fresh session token, which is
	// appended to the user's token list.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// FindByCredentials looks a user up by email and verifies the password.
	// Unknown email and wrong password both fail with
	// auth.ErrInvalidCredentials.
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// Logout revokes exactly the presented session token.
	Logout(ctx context.Context, userID uuid.UUID, token string) error

	// LogoutAll revokes every session token of the user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// Update persists profile changes. When a plaintext password is staged
	// on the entity it is validated and re-hashed first; an unchanged
	// password is never re-hashed.
	Update(ctx context.Context, user *domain.User) error

	// DeleteAccount removes the user and cascade-deletes all owned tasks in
	// one transaction, then emits a deletion event.
	DeleteAccount(ctx context.Context, user *domain.User) error

	// SetAvatar stores the avatar blob for the user.
	SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error

	// GetAvatar returns the raw avatar blob for any user (public lookup).
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// ClearAvatar removes the user's avatar.
	ClearAvatar(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore    store.UserStore
	taskStore    store.TaskStore
	tokenService auth.TokenService
	hasher       auth.PasswordHasher
	emitter      events.Emitter
	db           *sql.DB
	logger       *slog.Logger
}

// NewUserService creates a new UserService. The emitter may be nil, in
// which case no lifecycle events are published.
func NewUserService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	tokenService auth.TokenService,
	hasher auth.PasswordHasher,
	emitter events.Emitter,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore:    userStore,
		taskStore:    taskStore,
		tokenService: tokenService,
		hasher:       hasher,
		emitter:      emitter,
		db:           db,
		logger:       logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register
func (s *UserServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, "", err
	}

	if err := s.hashIfDirty(user); err != nil {
		return nil, "", err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueAndStoreToken(ctx, user)
	if err != nil {
		s.logger.Error("failed to issue token after registration",
			"error", err,
			"user_id", user.ID)
		return nil, "", err
	}

	s.emitUserEvent(ctx, events.TypeUserRegistered, user)

	s.logger.Debug("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login implements UserService.Login
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueAndStoreToken(ctx, user)
	if err != nil {
		s.logger.Error("failed to issue token on login",
			"error", err,
			"user_id", user.ID)
		return nil, "", err
	}

	return user, token, nil
}

// FindByCredentials implements UserService.FindByCredentials
// The store error and the hash mismatch collapse into the same sentinel so
// the response never reveals whether the email exists.
func (s *UserServiceImpl) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// Logout implements UserService.Logout
func (s *UserServiceImpl) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	return s.userStore.RemoveToken(ctx, userID, token)
}

// LogoutAll implements UserService.LogoutAll
func (s *UserServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.userStore.ClearTokens(ctx, userID)
}

// Update implements UserService.Update
func (s *UserServiceImpl) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	if err := s.hashIfDirty(user); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	return s.userStore.Update(ctx, user)
}

// DeleteAccount implements UserService.DeleteAccount
// The task cascade and the user row removal commit or roll back together.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, user *domain.User) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).DeleteAllForOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to cascade-delete tasks: %w", err)
		}
		return s.userStore.WithTx(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.emitUserEvent(ctx, events.TypeUserDeleted, user)

	s.logger.Debug("account deleted", "user_id", user.ID)
	return nil
}

// SetAvatar implements UserService.SetAvatar
func (s *UserServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	return s.userStore.UpdateAvatar(ctx, userID, avatar)
}

// GetAvatar implements UserService.GetAvatar
func (s *UserServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.userStore.GetAvatar(ctx, userID)
}

// ClearAvatar implements UserService.ClearAvatar
func (s *UserServiceImpl) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.userStore.ClearAvatar(ctx, userID)
}

// hashIfDirty re-hashes exactly when a plaintext password is staged on the
// entity, then clears the plaintext so a later save cannot hash a hash.
func (s *UserServiceImpl) hashIfDirty(user *domain.User) error {
	if !user.PasswordDirty() {
		return nil
	}

	if err := domain.ValidatePassword(user.Password); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.HashedPassword = hashed
	user.Password = ""
	return nil
}

func (s *UserServiceImpl) issueAndStoreToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokenService.IssueToken(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if err := s.userStore.AddToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

// emitUserEvent publishes a lifecycle event. Best-effort: failures are
// logged and never fail the triggering operation.
func (s *UserServiceImpl) emitUserEvent(ctx context.Context, eventType string, user *domain.User) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(eventType, events.UserEventPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Error("failed to build user event",
			"error", err,
			"event_type", eventType,
			"user_id", user.ID)
		return
	}

	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit user event",
			"error", err,
			"event_type", eventType,
			"user_id", user.ID)
	}
}
