package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// TokenSecret is the process-wide HMAC signing secret, read once at
	// startup and passed explicitly into the token service.
	TokenSecret string `mapstructure:"token_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds session token validity. 0 disables the
	// expiry claim entirely: tokens then live until revoked, which is the
	// default contract of this service.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`

	// BcryptCost is the adaptive hashing cost factor. 0 selects the
	// bcrypt default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// EmailConfig contains the outbound notification settings. Notifications
// are best-effort: when Enabled is false or the API key is empty, emails
// are silently skipped.
type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromAddress    string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName       string `mapstructure:"from_name"`
}
