package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Wallet
	CorporationID    int64
	WalletDivision   int64
	ExcludedPartyIDs []int64
	PageLimit        int

	// ESI
	ESIToken    string
	ESIProxyURL string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report
	GoogleSpreadsheetID string
	JournalSheetName    string
	TaxSheetName        string

	// Worker
	ScanInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		CorporationID:    getEnvInt64("CORPORATION_ID", 0),
		WalletDivision:   getEnvInt64("WALLET_DIVISION", 1),
		ExcludedPartyIDs: getEnvInt64List("EXCLUDED_PARTY_IDS", []int64{500016}),
		PageLimit:        getEnvInt("PAGE_LIMIT", 200),

		ESIToken:    getEnv("ESI_TOKEN", ""),
		ESIProxyURL: getEnv("ESI_PROXY_URL", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/corptax.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "corptax"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "resolve_parties"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		JournalSheetName:    getEnv("JOURNAL_SHEET_NAME", "Journal"),
		TaxSheetName:        getEnv("TAX_SHEET_NAME", "Tax"),

		ScanInterval: getEnvDuration("SCAN_INTERVAL", 10*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.CorporationID <= 0 {
		errors = append(errors, "CORPORATION_ID is required and must be a positive id")
	}

	// Corporation wallets have seven divisions
	if c.WalletDivision < 1 || c.WalletDivision > 7 {
		errors = append(errors, fmt.Sprintf("invalid wallet division %d: must be between 1 and 7", c.WalletDivision))
	}

	if c.PageLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid page limit %d: must be at least 1", c.PageLimit))
	} else if c.PageLimit > 10000 {
		errors = append(errors, fmt.Sprintf("invalid page limit %d: must be at most 10000", c.PageLimit))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.ESIProxyURL != "" {
		if _, err := url.Parse(c.ESIProxyURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid ESI proxy URL '%s': %v", c.ESIProxyURL, err))
		}
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

	if c.ScanInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid scan interval %v: must be at least 1 second", c.ScanInterval))
	} else if c.ScanInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid scan interval %v: must be at most 24 hours", c.ScanInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64List(key string, defaultValue []int64) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return defaultValue
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
