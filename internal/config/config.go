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
	// HTTP Server
	Port              string
	SecureCookies     bool
	RequestsPerMinute int

	// Dataset source selection
	DataBackend      string
	DeforestationCSV string
	EconomicCSV      string

	// SQLite snapshot
	SQLiteDBPath string

	// AMQP (optional)
	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string
	AMQPRoutingKey string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleDeforestationRange string
	GoogleEconomicRange      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Dashboard
	MinYear              int
	MaxYear              int
	DefaultYearStart     int
	DefaultYearEnd       int
	DefaultSelectionSize int
	TablePageSize        int

	// Sessions and caches
	SessionTTL        time.Duration
	SessionMaxEntries int
	ChartCacheSize    int

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		SecureCookies:     getEnvBool("SECURE_COOKIES", false),
		RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		DataBackend:      getEnv("DATA_BACKEND", "files"),
		DeforestationCSV: getEnv("DEFORESTATION_CSV", ""),
		EconomicCSV:      getEnv("ECONOMIC_CSV", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/desmatamento.db"),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "desmatamento"),
		AMQPQueue:      getEnv("AMQP_QUEUE", "dataset_events"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "dataset.loaded"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleDeforestationRange: getEnv("GOOGLE_DEFORESTATION_RANGE", "desmatamento!A:C"),
		GoogleEconomicRange:      getEnv("GOOGLE_ECONOMIC_RANGE", "pib!A:H"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		MinYear:              getEnvInt("MIN_YEAR", 2008),
		MaxYear:              getEnvInt("MAX_YEAR", 2023),
		DefaultYearStart:     getEnvInt("DEFAULT_YEAR_START", 2010),
		DefaultYearEnd:       getEnvInt("DEFAULT_YEAR_END", 2021),
		DefaultSelectionSize: getEnvInt("DEFAULT_SELECTION_SIZE", 5),
		TablePageSize:        getEnvInt("TABLE_PAGE_SIZE", 20),

		SessionTTL:        getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionMaxEntries: getEnvInt("SESSION_MAX_ENTRIES", 1000),
		ChartCacheSize:    getEnvInt("CHART_CACHE_SIZE", 256),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"files", "sqlite", "sheets"}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RequestsPerMinute < 1 || c.RequestsPerMinute > 100000 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be between 1 and 100000 requests per minute", c.RequestsPerMinute))
	}

	isValidBackend := false
	for _, backend := range ValidBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	switch c.DataBackend {
	case "files":
		for _, p := range []string{c.DeforestationCSV, c.EconomicCSV} {
			if p == "" {
				continue
			}
			if _, err := os.Stat(p); err != nil {
				errors = append(errors, fmt.Sprintf("dataset file '%s' is not readable: %v", p, err))
			}
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleDeforestationRange == "" || c.GoogleEconomicRange == "" {
			errors = append(errors, "both Google sheet ranges are required when using sheets backend")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
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

	if c.MinYear > c.MaxYear {
		errors = append(errors, fmt.Sprintf("invalid year bounds %d-%d: MIN_YEAR must not exceed MAX_YEAR", c.MinYear, c.MaxYear))
	}
	if c.DefaultYearStart > c.DefaultYearEnd {
		errors = append(errors, fmt.Sprintf("invalid default years %d-%d: start must not exceed end", c.DefaultYearStart, c.DefaultYearEnd))
	}
	if c.DefaultSelectionSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid default selection size %d: must be at least 1", c.DefaultSelectionSize))
	}
	if c.TablePageSize < 1 || c.TablePageSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid table page size %d: must be between 1 and 500", c.TablePageSize))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}
	if c.SessionMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid session capacity %d: must be at least 1", c.SessionMaxEntries))
	}
	if c.ChartCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid chart cache size %d: must be at least 1", c.ChartCacheSize))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
