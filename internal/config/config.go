// Package config handles application configuration loading from environment
// variables and an optional .env or config.env file. It provides a
// centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Logging
	LogLevel      string
	LogFile       string // empty logs to stdout only
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// Remote catalog REST API
	CatalogAPIURL     string
	CatalogAPITimeout time.Duration

	// Admin screens
	ItemsPerPage      int
	MutationRateLimit int // mutations per session per minute, 0 disables

	// PostgreSQL saga journal. Unset DATABASE_URL and POSTGRES_HOST keep
	// the journal in memory.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Valkey session store. Unset VALKEY_HOST keeps sessions in memory.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible storage for product attachments. Without credentials
	// files go through the catalog API's own upload endpoint.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, with values from
// .env or config.env in the working directory as a fallback, applying
// development defaults where appropriate. Returns an error if critical
// values are missing or invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Host: v.GetString("APP_HOST"),
		Port: v.GetString("APP_PORT"),
		Env:  v.GetString("APP_ENV"),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),

		CatalogAPIURL:     strings.TrimRight(v.GetString("CATALOG_API_URL"), "/"),
		CatalogAPITimeout: v.GetDuration("CATALOG_API_TIMEOUT"),

		ItemsPerPage:      v.GetInt("LIST_ITEMS_PER_PAGE"),
		MutationRateLimit: v.GetInt("MUTATION_RATE_LIMIT"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("POSTGRES_HOST"),
		DBPort:      v.GetString("POSTGRES_PORT"),
		DBUser:      v.GetString("POSTGRES_USER"),
		DBPassword:  v.GetString("POSTGRES_PASSWORD"),
		DBName:      v.GetString("POSTGRES_DB"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),

		S3Endpoint:  v.GetString("S3_ENDPOINT"),
		S3Region:    v.GetString("S3_REGION"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Bucket:    v.GetString("S3_BUCKET"),
		S3PublicURL: v.GetString("S3_PUBLIC_URL"),
	}

	if cfg.CatalogAPIURL == "" && cfg.Env != "production" {
		cfg.CatalogAPIURL = "http://localhost:3000/api"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("CATALOG_API_TIMEOUT", "15s")
	v.SetDefault("LIST_ITEMS_PER_PAGE", 10)
	v.SetDefault("MUTATION_RATE_LIMIT", 30)

	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "catalogadmin")
	v.SetDefault("POSTGRES_PASSWORD", "changeme")
	v.SetDefault("POSTGRES_DB", "catalogadmin")

	v.SetDefault("VALKEY_PORT", "6379")

	v.SetDefault("S3_REGION", "fsn1")
}

func (c *Config) validate() error {
	if c.CatalogAPIURL == "" {
		return errors.New("CATALOG_API_URL must be set in production")
	}
	u, err := url.Parse(c.CatalogAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CATALOG_API_URL %q is not an absolute URL", c.CatalogAPIURL)
	}
	if c.CatalogAPITimeout <= 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT must be positive, got %s", c.CatalogAPITimeout)
	}
	if c.ItemsPerPage < 1 {
		return fmt.Errorf("LIST_ITEMS_PER_PAGE must be at least 1, got %d", c.ItemsPerPage)
	}
	if c.MutationRateLimit < 0 {
		return fmt.Errorf("MUTATION_RATE_LIMIT must not be negative, got %d", c.MutationRateLimit)
	}
	if c.Env == "production" && c.HasDatabase() && c.DatabaseURL == "" && c.DBPassword == "changeme" {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// HasDatabase reports whether a PostgreSQL journal is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != "" || c.DBHost != ""
}

// DSN returns the PostgreSQL connection string: DATABASE_URL when set,
// otherwise one built from the POSTGRES_* values.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// HasValkey reports whether a Valkey session store is configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyHost != ""
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
