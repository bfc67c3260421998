package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Storage StorageConfig
	MongoDB MongoDBConfig
	Sheets  SheetsConfig
	Audit   AuditConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// StorageConfig selects where plots and measurement records are stored.
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the optional Google Sheets audit mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the audit mirror sheet is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// AuditConfig holds measurement audit delivery settings.
type AuditConfig struct {
	WebhookURL    string
	WebhookToken  string
	BufferSize    int
	RetrySchedule string
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

	bufferSize, err := getenvInt("AUDIT_BUFFER_SIZE", 64)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver:     getenvWithDefault("STORAGE_DRIVER", DriverSQLite),
			SQLitePath: getenvWithDefault("SQLITE_PATH", "pitak.db"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "pitak"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Audit: AuditConfig{
			WebhookURL:    os.Getenv("AUDIT_WEBHOOK_URL"),
			WebhookToken:  os.Getenv("AUDIT_WEBHOOK_TOKEN"),
			BufferSize:    bufferSize,
			RetrySchedule: getenvWithDefault("AUDIT_RETRY_SCHEDULE", "*/5 * * * *"),
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

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH must be provided")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Audit.BufferSize <= 0 {
		return errors.New("AUDIT_BUFFER_SIZE must be positive")
	}

	if c.Audit.RetrySchedule == "" {
		return errors.New("AUDIT_RETRY_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
