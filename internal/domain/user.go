package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common user validation errors. Each wraps ErrValidation.
var (
	ErrEmptyUserID         = validationSentinel("user ID cannot be empty")
	ErrEmptyName           = validationSentinel("name cannot be empty")
	ErrInvalidEmail        = validationSentinel("invalid email format")
	ErrEmptyEmail          = validationSentinel("email cannot be empty")
	ErrPasswordTooShort    = validationSentinel("password must be at least 7 characters long")
	ErrPasswordTooLong     = validationSentinel("password must be at most 72 characters long")
	ErrPasswordForbidden   = validationSentinel(`password must not contain "password"`)
	ErrEmptyPassword       = validationSentinel("password cannot be empty")
	ErrNegativeAge         = validationSentinel("age cannot be negative")
	ErrEmptyHashedPassword = validationSentinel("hashed password cannot be empty")
)

// MaxAvatarSize is the largest avatar blob accepted, in bytes.
const MaxAvatarSize = 1 << 20 // 1MB

// User represents a registered user of the application.
// It contains profile data and authentication details.
//
// Password holds a plaintext password only transiently, during registration
// or a password change; HashedPassword is what gets persisted. Tokens is the
// list of currently live session tokens; a bearer token is only honored
// while it appears here.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"emailID"`
	Password       string    `json:"-"` // Plaintext, used transiently before hashing
	HashedPassword string    `json:"-"` // Never exposed in JSON
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"` // Served only via the avatar endpoints
	Tokens         []string  `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile fields. It generates a
// new UUID, normalizes the email to lower case, and sets timestamps.
// Returns a validation error if any field is invalid.
//
// NOTE: the plaintext password is kept on the returned struct; the caller
// (the user service) is responsible for hashing it before persistence.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  strings.TrimSpace(password),
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an email address. All lookups and
// uniqueness checks operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetEmail normalizes and assigns a new email address.
func (u *User) SetEmail(email string) {
	u.Email = NormalizeEmail(email)
}

// SetPassword stages a new plaintext password on the entity. The password
// field is considered dirty afterwards: the service layer re-hashes exactly
// when Password is non-empty, and never re-hashes an unchanged hash.
func (u *User) SetPassword(password string) {
	u.Password = strings.TrimSpace(password)
}

// PasswordDirty reports whether a plaintext password is staged and must be
// hashed before the next save.
func (u *User) PasswordDirty() bool {
	return u.Password != ""
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword enforces the password rules: at least 7 characters, at
// most 72 (bcrypt's input limit), and never containing the literal
// substring "password" in any casing.
func ValidatePassword(password string) error {
	if len(password) < 7 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// validEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format:
// a local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}
	if strings.IndexByte(email[atIndex+1:], '@') != -1 {
		return false
	}

	domain := email[atIndex+1:]
	dotIndex := strings.IndexByte(domain, '.')
	if dotIndex <= 0 || dotIndex == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t")
}
