package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("port = %q, want 3000", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("env = %q, want development", cfg.Env)
	}
	if cfg.StoreBackend != BackendLocal {
		t.Errorf("backend = %q, want local", cfg.StoreBackend)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("session ttl = %v, want 12h", cfg.SessionTTL)
	}
	if cfg.Addr() != "0.0.0.0:3000" {
		t.Errorf("addr = %q, want 0.0.0.0:3000", cfg.Addr())
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev in default config")
	}
}

func TestLoadProductionRejectsDefaultPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	if _, err := Load(); err == nil {
		t.Error("expected error for default admin password in production")
	}
}

func TestLoadProductionAcceptsHash(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	if _, err := Load(); err != nil {
		t.Errorf("Load: %v", err)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "ftp")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadGitHubBackendRequiresRepo(t *testing.T) {
	t.Setenv("STORE_BACKEND", "github")
	if _, err := Load(); err == nil {
		t.Error("expected error for github backend without repo and token")
	}

	t.Setenv("GH_REPO", "acme/site")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHubBranch != "main" {
		t.Errorf("branch = %q, want main", cfg.GitHubBranch)
	}
}

func TestLoadS3BackendRequiresEndpoint(t *testing.T) {
	t.Setenv("STORE_BACKEND", "s3")
	if _, err := Load(); err == nil {
		t.Error("expected error for s3 backend without endpoint and bucket")
	}
}

func TestEnvDurationForms(t *testing.T) {
	t.Setenv("SESSION_TTL", "6")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionTTL != 6*time.Hour {
		t.Errorf("ttl = %v, want 6h for bare integer", cfg.SessionTTL)
	}

	t.Setenv("SESSION_TTL", "90m")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("ttl = %v, want 90m", cfg.SessionTTL)
	}
}
