// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend selects where the content document and media are persisted.
const (
	BackendLocal  = "local"
	BackendGitHub = "github"
	BackendS3     = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // public origin for absolute media URLs

	// Admin credentials
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	AdminTOTPSecret   string
	SessionTTL        time.Duration

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Persistence backend: "local", "github" or "s3"
	StoreBackend string
	DataDir      string

	// GitHub backend
	GitHubRepo   string
	GitHubBranch string
	GitHubToken  string

	// S3 backend
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

const defaultPassword = "changeme"

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "3000"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: os.Getenv("APP_BASE_URL"),

		AdminPassword:     envOrDefault("ADMIN_PASSWORD", defaultPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   os.Getenv("ADMIN_TOTP_SECRET"),
		SessionTTL:        envDuration("SESSION_TTL", 12*time.Hour),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		StoreBackend: envOrDefault("STORE_BACKEND", BackendLocal),
		DataDir:      envOrDefault("DATA_DIR", "data"),

		GitHubRepo:   os.Getenv("GH_REPO"),
		GitHubBranch: envOrDefault("GH_BRANCH", "main"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	switch cfg.StoreBackend {
	case BackendLocal, BackendGitHub, BackendS3:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be local, github or s3, got %q", cfg.StoreBackend)
	}

	if cfg.StoreBackend == BackendGitHub && (cfg.GitHubRepo == "" || cfg.GitHubToken == "") {
		return nil, fmt.Errorf("github backend requires GH_REPO and GITHUB_TOKEN")
	}
	if cfg.StoreBackend == BackendS3 && (cfg.S3Endpoint == "" || cfg.S3Bucket == "") {
		return nil, fmt.Errorf("s3 backend requires S3_ENDPOINT and S3_BUCKET")
	}

	if cfg.Env == "production" {
		if cfg.AdminPasswordHash == "" && cfg.AdminPassword == defaultPassword {
			return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration reads a duration environment variable. Plain integers are
// interpreted as hours; otherwise time.ParseDuration syntax applies.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if hours, err := strconv.Atoi(v); err == nil {
		return time.Duration(hours) * time.Hour
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
