package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "FIREBASE_PROJECT_ID",
		"AUTH_VERIFIER", "AUTH_HS256_SECRET", "STORE_BACKEND", "DATABASE_URL",
		"REDIS_URL", "CORS_ALLOWED_ORIGINS", credentialsEnvVar,
		idemTTLSecondsEnvVar, idemTTLDurEnvVar, shutdownSecondsEnvVar, shutdownDurationEnvVar,
	} {
		t.Setenv(key, "")
	}
}

func writeCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	path := writeCredentials(t)
	t.Setenv(credentialsEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CredentialsFile != path {
		t.Fatalf("expected credentials %s, got %s", path, cfg.CredentialsFile)
	}
	if cfg.Verifier != VerifierFirebase || cfg.StoreBackend != StoreFirestore {
		t.Fatalf("unexpected backends: %s/%s", cfg.Verifier, cfg.StoreBackend)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != defaultAllowedOrigins {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.ShutdownPeriod != defaultShutdownDelay {
		t.Fatalf("unexpected shutdown period: %s", cfg.ShutdownPeriod)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address: %s", cfg.Address())
	}
}

func TestLoadMissingCredentialsIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv(credentialsEnvVar, filepath.Join(t.TempDir(), "missing.json"))

	_, err := Load()
	if !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestLoadCredentialsDirectoryRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv(credentialsEnvVar, t.TempDir())

	if _, err := Load(); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestLoadWithoutFirebaseSkipsCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_VERIFIER", VerifierHS256)
	t.Setenv("AUTH_HS256_SECRET", "dev-secret")
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv(credentialsEnvVar, filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UsesFirebase() {
		t.Fatal("expected firebase to be unused")
	}
	if cfg.CredentialsFile != "" {
		t.Fatalf("expected no credentials file, got %s", cfg.CredentialsFile)
	}
}

func TestLoadRejectsDevBackendsOutsideDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_VERIFIER", VerifierHS256)
	t.Setenv("AUTH_HS256_SECRET", "dev-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected hs256 to be rejected in production")
	}

	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv(credentialsEnvVar, writeCredentials(t))
	t.Setenv("STORE_BACKEND", StoreMemory)
	if _, err := Load(); err == nil {
		t.Fatal("expected memory store to be rejected in production")
	}
}

func TestLoadPostgresRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv(credentialsEnvVar, writeCredentials(t))
	t.Setenv("STORE_BACKEND", StorePostgres)

	if _, err := Load(); err == nil {
		t.Fatal("expected DATABASE_URL error")
	}
}

func TestLoadDurationsAndOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv(credentialsEnvVar, writeCredentials(t))
	t.Setenv(shutdownSecondsEnvVar, "3")
	t.Setenv(idemTTLDurEnvVar, "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownPeriod)
	}
	if cfg.IdempotencyTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.IdempotencyTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}

	t.Setenv(shutdownSecondsEnvVar, "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid duration error")
	}
}
