// Package config loads service configuration from the environment and the
// command-line tool's settings from a TOML file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/tripledger/internal/ledger"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBPath string

	// Auth
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP retry queue; empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// How often the server retries trips left dirty by a failed reconciliation
	RetryInterval time.Duration

	// Ledger
	LedgerTolerance float64
	LedgerPlaces    int

	MetricsEnabled bool
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/tripledger.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger.dirty"),

		RetryInterval: getEnvDuration("RETRY_INTERVAL", 30*time.Second),

		LedgerTolerance: getEnvFloat("LEDGER_TOLERANCE", ledger.DefaultTolerance),
		LedgerPlaces:    getEnvInt("LEDGER_PLACES", int(ledger.DefaultPlaces)),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Ledger returns the settlement configuration.
func (c *Config) Ledger() ledger.Config {
	return ledger.Config{Tolerance: c.LedgerTolerance, Places: int32(c.LedgerPlaces)}
}

// AMQPEnabled reports whether a retry queue is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
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

	if c.RetryInterval <= 0 {
		errors = append(errors, fmt.Sprintf("invalid retry interval %v: must be positive", c.RetryInterval))
	}

	if c.LedgerTolerance <= 0 || c.LedgerTolerance >= 1 {
		errors = append(errors, fmt.Sprintf("invalid ledger tolerance %v: must be in (0, 1)", c.LedgerTolerance))
	}
	if c.LedgerPlaces < 0 || c.LedgerPlaces > 8 {
		errors = append(errors, fmt.Sprintf("invalid ledger places %d: must be between 0 and 8", c.LedgerPlaces))
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
