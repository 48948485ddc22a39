package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "FolioAPI"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultCredentialsPath = "serviceAccountKey.json"
	defaultAllowedOrigins  = "http://localhost:3000"
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	credentialsEnvVar      = "FIREBASE_SA_PATH"
)

// Token verifier and store backend selectors.
const (
	VerifierFirebase = "firebase"
	VerifierHS256    = "hs256"

	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// ErrCredentials is returned when the service-account file cannot be used.
// The process must not serve traffic without it.
var ErrCredentials = errors.New("firebase service account unavailable")

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	CredentialsFile string
	ProjectID       string
	Verifier        string
	HS256Secret     string
	StoreBackend    string
	DatabaseURL     string
	RedisURL        string
	AllowedOrigins  []string
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory, when present, seeds
// variables that are not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		ProjectID:      os.Getenv("FIREBASE_PROJECT_ID"),
		Verifier:       strings.ToLower(getEnv("AUTH_VERIFIER", VerifierFirebase)),
		HS256Secret:    os.Getenv("AUTH_HS256_SECRET"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	switch cfg.Verifier {
	case VerifierFirebase:
	case VerifierHS256:
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("AUTH_VERIFIER=%s is only allowed in development", VerifierHS256)
		}
		if cfg.HS256Secret == "" {
			return Config{}, fmt.Errorf("AUTH_HS256_SECRET must be set")
		}
	default:
		return Config{}, fmt.Errorf("unknown AUTH_VERIFIER %q", cfg.Verifier)
	}

	switch cfg.StoreBackend {
	case StoreFirestore:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set")
		}
	case StoreMemory:
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("STORE_BACKEND=%s is only allowed in development", StoreMemory)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if len(cfg.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	if cfg.UsesFirebase() {
		path, err := resolveCredentials(getEnv(credentialsEnvVar, defaultCredentialsPath))
		if err != nil {
			return Config{}, err
		}
		cfg.CredentialsFile = path
	}

	return cfg, nil
}

// UsesFirebase reports whether any configured component talks to Firebase.
func (c Config) UsesFirebase() bool {
	return c.Verifier == VerifierFirebase || c.StoreBackend == StoreFirestore
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func resolveCredentials(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", ErrCredentials, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found (set %s)", ErrCredentials, abs, credentialsEnvVar)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrCredentials, abs)
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not readable: %v", ErrCredentials, abs, err)
	}
	f.Close()
	return abs, nil
}

func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
