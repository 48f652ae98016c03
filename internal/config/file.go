package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout. Durations are strings ("30s", "6h").
type fileConfig struct {
	Server struct {
		Port        string `toml:"port"`
		Environment string `toml:"environment"`
		DebugKey    string `toml:"debug_key"`
	} `toml:"server"`

	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"logging"`

	Database struct {
		Driver     string `toml:"driver"`
		SQLitePath string `toml:"sqlite_path"`
		URL        string `toml:"url"`
	} `toml:"database"`

	Upstream struct {
		Timeout  string `toml:"timeout"`
		Airtable struct {
			BaseID  string `toml:"base_id"`
			BaseURL string `toml:"base_url"`
		} `toml:"airtable"`
		Hostaway struct {
			AccountID string `toml:"account_id"`
			BaseURL   string `toml:"base_url"`
		} `toml:"hostaway"`
		GHL struct {
			LocationID string `toml:"location_id"`
			BaseURL    string `toml:"base_url"`
		} `toml:"ghl"`
	} `toml:"upstream"`

	Dashboard struct {
		ExpenseWindowMonths int    `toml:"expense_window_months"`
		HostingCacheMaxAge  string `toml:"hosting_cache_max_age"`
	} `toml:"dashboard"`

	Ledger struct {
		AMQPURL       string `toml:"amqp_url"`
		Exchange      string `toml:"exchange"`
		Queue         string `toml:"queue"`
		SpreadsheetID string `toml:"spreadsheet_id"`
		SheetName     string `toml:"sheet_name"`
		SyncInterval  string `toml:"sync_interval"`
	} `toml:"ledger"`
}

// applyFile overlays non-empty values from a TOML file. Secrets (API keys,
// service account JSON) are only read from the environment.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Port, fc.Server.Port)
	setString(&cfg.Environment, fc.Server.Environment)
	setString(&cfg.DebugKey, fc.Server.DebugKey)
	setString(&cfg.LogLevel, fc.Logging.Level)
	setString(&cfg.LogFormat, fc.Logging.Format)
	setString(&cfg.DBDriver, fc.Database.Driver)
	setString(&cfg.SQLiteDBPath, fc.Database.SQLitePath)
	setString(&cfg.DatabaseURL, fc.Database.URL)
	setString(&cfg.Airtable.BaseID, fc.Upstream.Airtable.BaseID)
	setString(&cfg.Airtable.BaseURL, fc.Upstream.Airtable.BaseURL)
	setString(&cfg.Hostaway.AccountID, fc.Upstream.Hostaway.AccountID)
	setString(&cfg.Hostaway.BaseURL, fc.Upstream.Hostaway.BaseURL)
	setString(&cfg.GHL.LocationID, fc.Upstream.GHL.LocationID)
	setString(&cfg.GHL.BaseURL, fc.Upstream.GHL.BaseURL)
	setString(&cfg.AMQPURL, fc.Ledger.AMQPURL)
	setString(&cfg.AMQPExchange, fc.Ledger.Exchange)
	setString(&cfg.AMQPQueue, fc.Ledger.Queue)
	setString(&cfg.GoogleSpreadsheetID, fc.Ledger.SpreadsheetID)
	setString(&cfg.GoogleLedgerSheet, fc.Ledger.SheetName)

	if fc.Dashboard.ExpenseWindowMonths != 0 {
		cfg.ExpenseWindowMonths = fc.Dashboard.ExpenseWindowMonths
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"upstream.timeout", fc.Upstream.Timeout, &cfg.UpstreamTimeout},
		{"dashboard.hosting_cache_max_age", fc.Dashboard.HostingCacheMaxAge, &cfg.HostingCacheMaxAge},
		{"ledger.sync_interval", fc.Ledger.SyncInterval, &cfg.SyncInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("parse config file %s: %s: %w", path, d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
