package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port        string
	Environment string
	DebugKey    string

	// Logging
	LogLevel  string
	LogFormat string

	// Database
	DBDriver     string
	SQLiteDBPath string
	DatabaseURL  string

	// Upstream services
	Airtable        AirtableConfig
	Hostaway        HostawayConfig
	GHL             GHLConfig
	UpstreamTimeout time.Duration

	// Dashboard behaviour
	ExpenseWindowMonths int
	HostingCacheMaxAge  time.Duration

	// AMQP (optional ledger mirror)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets ledger
	GoogleSpreadsheetID      string
	GoogleLedgerSheet        string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Worker
	SyncInterval time.Duration
}

// AirtableConfig holds the CRM base credentials.
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	BaseURL string
}

// Validate reports the first missing credential.
func (c AirtableConfig) Validate() error {
	if c.APIKey == "" {
		return missing("AIRTABLE_API_KEY")
	}
	if c.BaseID == "" {
		return missing("AIRTABLE_BASE_ID")
	}
	return nil
}

// HostawayConfig holds the property-management platform credentials.
type HostawayConfig struct {
	APIKey    string
	AccountID string
	BaseURL   string
}

func (c HostawayConfig) Validate() error {
	if c.APIKey == "" {
		return missing("HOSTAWAY_API_KEY")
	}
	if c.AccountID == "" {
		return missing("HOSTAWAY_ACCOUNT_ID")
	}
	return nil
}

// GHLConfig holds the marketing CRM credentials.
type GHLConfig struct {
	APIKey     string
	LocationID string
	BaseURL    string
}

func (c GHLConfig) Validate() error {
	if c.APIKey == "" {
		return missing("GHL_API_KEY")
	}
	if c.LocationID == "" {
		return missing("GHL_LOCATION_ID")
	}
	return nil
}

// MissingVariableError is returned when a required environment value is absent.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required environment variable %s", e.Name)
}

func missing(name string) error {
	return &MissingVariableError{Name: name}
}

// Default returns a configuration populated with built-in defaults only.
func Default() *Config {
	return &Config{
		Port:        "8080",
		Environment: "development",

		LogLevel:  "info",
		LogFormat: "text",

		DBDriver:     "sqlite",
		SQLiteDBPath: "./data/opsdash.db",

		Airtable: AirtableConfig{BaseURL: "https://api.airtable.com/v0"},
		Hostaway: HostawayConfig{BaseURL: "https://api.hostaway.com/v1"},
		GHL:      GHLConfig{BaseURL: "https://services.leadconnectorhq.com"},

		UpstreamTimeout:     30 * time.Second,
		ExpenseWindowMonths: 12,
		HostingCacheMaxAge:  6 * time.Hour,

		AMQPExchange: "opsdash",
		AMQPQueue:    "ledger_mirror",

		GoogleLedgerSheet: "Ledger",

		SyncInterval: 15 * time.Minute,
	}
}

// Load reads configuration from the environment on top of the defaults.
func Load() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// LoadWithFile layers defaults, an optional TOML file and the environment,
// in that order of precedence.
func LoadWithFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DebugKey = getEnv("DEBUG_KEY", cfg.DebugKey)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", getEnv("POSTGRES_URL", cfg.DatabaseURL))

	cfg.Airtable.APIKey = getEnv("AIRTABLE_API_KEY", cfg.Airtable.APIKey)
	cfg.Airtable.BaseID = getEnv("AIRTABLE_BASE_ID", cfg.Airtable.BaseID)
	cfg.Airtable.BaseURL = getEnv("AIRTABLE_BASE_URL", cfg.Airtable.BaseURL)
	cfg.Hostaway.APIKey = getEnv("HOSTAWAY_API_KEY", cfg.Hostaway.APIKey)
	cfg.Hostaway.AccountID = getEnv("HOSTAWAY_ACCOUNT_ID", cfg.Hostaway.AccountID)
	cfg.Hostaway.BaseURL = getEnv("HOSTAWAY_BASE_URL", cfg.Hostaway.BaseURL)
	cfg.GHL.APIKey = getEnv("GHL_API_KEY", cfg.GHL.APIKey)
	cfg.GHL.LocationID = getEnv("GHL_LOCATION_ID", cfg.GHL.LocationID)
	cfg.GHL.BaseURL = getEnv("GHL_BASE_URL", cfg.GHL.BaseURL)
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)

	cfg.ExpenseWindowMonths = getEnvInt("EXPENSE_WINDOW_MONTHS", cfg.ExpenseWindowMonths)
	cfg.HostingCacheMaxAge = getEnvDuration("HOSTING_CACHE_MAX_AGE", cfg.HostingCacheMaxAge)

	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)

	cfg.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", cfg.GoogleSpreadsheetID)
	cfg.GoogleLedgerSheet = getEnv("GOOGLE_LEDGER_SHEET_NAME", cfg.GoogleLedgerSheet)
	cfg.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", cfg.GoogleServiceAccountJSON)
	cfg.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", cfg.GoogleServiceAccountFile)

	cfg.SyncInterval = getEnvDuration("SYNC_INTERVAL", cfg.SyncInterval)
}

// IsProduction reports whether the process runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LedgerEnabled reports whether expense entries are mirrored through AMQP.
func (c *Config) LedgerEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid.
// Upstream credentials are checked by the clients that need them.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be one of [sqlite postgres]", c.DBDriver))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ExpenseWindowMonths < 1 || c.ExpenseWindowMonths > 120 {
		errors = append(errors, fmt.Sprintf("invalid expense window %d: must be between 1 and 120 months", c.ExpenseWindowMonths))
	}

	if c.UpstreamTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must be at least 1 second", c.UpstreamTimeout))
	}

	if c.HostingCacheMaxAge < 0 {
		errors = append(errors, fmt.Sprintf("invalid hosting cache max age %v: must not be negative", c.HostingCacheMaxAge))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateLedger checks the settings the ledger worker needs.
func (c *Config) ValidateLedger() error {
	if c.AMQPURL == "" {
		return missing("AMQP_URL")
	}
	if c.GoogleSpreadsheetID == "" {
		return missing("GOOGLE_SPREADSHEET_ID")
	}
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		return missing("GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
