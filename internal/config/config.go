package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

// Store types.
const (
	StoreFirebase = "firebase"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Session   SessionConfig
	Auth      AuthConfig
	Upload    UploadConfig
	Analytics AnalyticsConfig
	Database  DatabaseConfig
	CORS      CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
}

// StoreConfig selects and addresses the document store.
type StoreConfig struct {
	Type string
	// URL is the Realtime Database base URL, e.g.
	// https://project-default-rtdb.firebaseio.com
	URL      string
	RootPath string
	// AuthSecret is sent as ?auth= on every request.
	AuthSecret string
	// CredentialsFile is a service-account key used for bearer tokens.
	CredentialsFile string
	Timeout         time.Duration
	// RetryDelay is the pause before reopening a dropped push stream.
	RetryDelay time.Duration
	// SeedFile preloads the memory store from a JSON document.
	SeedFile string
	// DocumentKey is the row id in the Postgres store.
	DocumentKey string
}

type SessionConfig struct {
	Mode         string
	PollInterval time.Duration
}

// AuthConfig holds the login gate. Leaving both password hashes empty
// disables authentication.
type AuthConfig struct {
	JWTSecret          string
	AccessTTL          time.Duration
	AdminUsername      string
	AdminPasswordHash  string
	ViewerUsername     string
	ViewerPasswordHash string
}

func (a AuthConfig) Enabled() bool {
	return a.AdminPasswordHash != "" || a.ViewerPasswordHash != ""
}

type UploadConfig struct {
	ArchiveDir  string
	MaxFileSize int64
}

type AnalyticsConfig struct {
	// BudgetMonth pins the YYYY-MM used for budget lookups. Empty means
	// the current month.
	BudgetMonth string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using environment only")
	}

	config := &Config{}
	var errs []error

	appPort, err := getEnvInt("APP_PORT", 8080)
	errs = append(errs, err)
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "dev"),
	}

	storeTimeout, err := getEnvDuration("STORE_TIMEOUT", 30*time.Second)
	errs = append(errs, err)
	retryDelay, err := getEnvDuration("FIREBASE_RETRY_DELAY", 5*time.Second)
	errs = append(errs, err)
	config.Store = StoreConfig{
		Type:            getEnv("STORE_TYPE", StoreFirebase),
		URL:             strings.TrimRight(getEnv("FIREBASE_URL", ""), "/"),
		RootPath:        getEnv("FIREBASE_ROOT", ""),
		AuthSecret:      getEnv("FIREBASE_AUTH", ""),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		Timeout:         storeTimeout,
		RetryDelay:      retryDelay,
		SeedFile:        getEnv("STORE_SEED_FILE", ""),
		DocumentKey:     getEnv("STORE_DOCUMENT_KEY", "default"),
	}

	pollInterval, err := getEnvDuration("SESSION_POLL_INTERVAL", 30*time.Second)
	errs = append(errs, err)
	config.Session = SessionConfig{
		Mode:         getEnv("SESSION_MODE", "poll"),
		PollInterval: pollInterval,
	}

	accessTTL, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", 8*time.Hour)
	errs = append(errs, err)
	config.Auth = AuthConfig{
		JWTSecret:          getEnv("JWT_SECRET_KEY", ""),
		AccessTTL:          accessTTL,
		AdminUsername:      getEnv("AUTH_ADMIN_USERNAME", "admin"),
		AdminPasswordHash:  getEnv("AUTH_ADMIN_PASSWORD_HASH", ""),
		ViewerUsername:     getEnv("AUTH_VIEWER_USERNAME", "viewer"),
		ViewerPasswordHash: getEnv("AUTH_VIEWER_PASSWORD_HASH", ""),
	}

	maxMB, err := getEnvInt("UPLOAD_MAX_SIZE_MB", 10)
	errs = append(errs, err)
	config.Upload = UploadConfig{
		ArchiveDir:  getEnv("UPLOAD_ARCHIVE_DIR", "./storage"),
		MaxFileSize: int64(maxMB) << 20,
	}

	config.Analytics = AnalyticsConfig{
		BudgetMonth: getEnv("BUDGET_MONTH", ""),
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	errs = append(errs, err)
	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	errs = append(errs, err)
	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreFirebase:
		if c.Store.URL == "" {
			return fmt.Errorf("FIREBASE_URL is required for the firebase store")
		}
		if c.Store.RetryDelay <= 0 {
			return fmt.Errorf("FIREBASE_RETRY_DELAY must be positive")
		}
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_TYPE must be one of %s, %s, %s", StoreFirebase, StoreMemory, StorePostgres)
	}

	switch c.Session.Mode {
	case "poll", "subscribe":
	default:
		return fmt.Errorf("SESSION_MODE must be poll or subscribe")
	}
	if c.Session.PollInterval <= 0 {
		return fmt.Errorf("SESSION_POLL_INTERVAL must be positive")
	}

	if c.Auth.Enabled() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required when a password hash is set")
	}

	if c.Analytics.BudgetMonth != "" {
		if _, ok := validator.IsValidMonth(c.Analytics.BudgetMonth); !ok {
			return fmt.Errorf("BUDGET_MONTH must be YYYY-MM")
		}
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE_MB must be positive")
	}
	return nil
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
