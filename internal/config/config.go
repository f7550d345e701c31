// Package config defines the application configuration and its loading.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"     validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins lists the origins permitted by the CORS layer.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// CookieSecure controls the Secure attribute on auth cookies.
	// Disable only for local development over plain HTTP.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	// TTLSeconds is the fixed lifetime of a cached list or item response.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
}

// MailConfig contains outbound email settings.
type MailConfig struct {
	// Sender is the From address on verification and reminder emails.
	Sender string `mapstructure:"sender" validate:"required,email"`

	// Region is the AWS region hosting the SES identity.
	Region string `mapstructure:"region" validate:"required"`

	// DryRun logs outbound emails instead of sending them.
	DryRun bool `mapstructure:"dry_run"`
}

// ReminderConfig contains reminder sweep settings.
type ReminderConfig struct {
	// IntervalMinutes is both the sweep period and the look-ahead window:
	// each sweep selects todos due within the next interval.
	IntervalMinutes int `mapstructure:"interval_minutes" validate:"required,gt=0"`

	// Enabled turns the sweep on; disabled in tests and one-off tooling.
	Enabled bool `mapstructure:"enabled"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Interval returns the sweep period as a duration.
func (c ReminderConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
