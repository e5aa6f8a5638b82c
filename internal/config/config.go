package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reconcile ReconcileConfig
	Sessions  SessionConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig contains connection options for the hosted entity store.
type StoreConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

// MongoDBConfig holds settings for the dashboard snapshot archive.
// Leaving URI empty disables the archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the co-op spreadsheet export.
// Leaving SpreadsheetID empty disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SnapshotRange   string
}

// ReconcileConfig holds scheduler-related settings.
type ReconcileConfig struct {
	CronSchedule string
	Timezone     string
}

// SessionConfig holds options for the record editor session registry.
type SessionConfig struct {
	TTL time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	storeTimeout, err := parseDuration("STORE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	retryCount, err := parseInt("STORE_RETRY_COUNT", "3")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parseDuration("SESSION_TTL", "2h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			BaseURL:    os.Getenv("ENTITY_STORE_URL"),
			APIKey:     os.Getenv("ENTITY_STORE_API_KEY"),
			Timeout:    storeTimeout,
			RetryCount: retryCount,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ferntrack"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			SnapshotRange:   getenvWithDefault("GOOGLE_SHEET_SNAPSHOT_RANGE", "Snapshots!A:G"),
		},
		Reconcile: ReconcileConfig{
			CronSchedule: getenvWithDefault("RECONCILE_CRON_SCHEDULE", "30 0 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Bangkok"),
		},
		Sessions: SessionConfig{
			TTL: sessionTTL,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Store.BaseURL == "":
		return errors.New("ENTITY_STORE_URL must be provided")
	case c.Store.APIKey == "":
		return errors.New("ENTITY_STORE_API_KEY must be provided")
	}

	if c.Store.Timeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}

	if c.Store.RetryCount < 0 {
		return errors.New("STORE_RETRY_COUNT must not be negative")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	if c.Reconcile.CronSchedule == "" {
		return errors.New("RECONCILE_CRON_SCHEDULE must be provided")
	}

	if c.Reconcile.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Sessions.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	value := getenvWithDefault(key, fallback)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return d, nil
}

func parseInt(key, fallback string) (int, error) {
	value := getenvWithDefault(key, fallback)
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
