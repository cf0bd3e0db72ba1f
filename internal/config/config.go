package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration for the bookswap server.
type Config struct {
	Port            int
	LogLevel        string
	StoreDriver     string
	DatabaseDSN     string
	RedisURL        string
	SearchCacheTTL  time.Duration
	BooksAPIURL     string
	BooksAPIKey     string
	BooksAPITimeout time.Duration
	WebhookTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

var defaults = map[string]any{
	"PORT":              "8080",
	"LOG_LEVEL":         "info",
	"STORE_DRIVER":      DriverMemory,
	"DATABASE_DSN":      "",
	"REDIS_URL":         "",
	"SEARCH_CACHE_TTL":  "10m",
	"BOOKS_API_URL":     "https://www.googleapis.com/books/v1/volumes",
	"BOOKS_API_KEY":     "",
	"BOOKS_API_TIMEOUT": "5s",
	"WEBHOOK_TIMEOUT":   "5s",
	"READ_TIMEOUT":      "5s",
	"WRITE_TIMEOUT":     "10s",
	"IDLE_TIMEOUT":      "60s",
	"SHUTDOWN_TIMEOUT":  "10s",
}

// Load reads configuration from a .env file, an optional config.yml in the
// working directory and environment variables, in increasing precedence.
// It applies defaults and validates values, returning an error for any
// invalid value.
func Load() (*Config, error) {
	// A missing .env is fine; variables already set are not overridden.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	port, err := getInt(v, "PORT")
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", port)
	}

	logLevel := v.GetString("LOG_LEVEL")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	driver := strings.ToLower(v.GetString("STORE_DRIVER"))
	switch driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q, must be one of: memory, sqlite, postgres", driver)
	}
	dsn := v.GetString("DATABASE_DSN")
	if driver != DriverMemory && dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required for STORE_DRIVER=%s", driver)
	}

	booksAPIURL := v.GetString("BOOKS_API_URL")
	if !strings.HasPrefix(booksAPIURL, "http://") && !strings.HasPrefix(booksAPIURL, "https://") {
		return nil, fmt.Errorf("invalid BOOKS_API_URL: %q", booksAPIURL)
	}

	durations := make(map[string]time.Duration, 8)
	for _, key := range []string{
		"SEARCH_CACHE_TTL", "BOOKS_API_TIMEOUT", "WEBHOOK_TIMEOUT",
		"READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		d, err := getDuration(v, key)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = d
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		StoreDriver:     driver,
		DatabaseDSN:     dsn,
		RedisURL:        v.GetString("REDIS_URL"),
		SearchCacheTTL:  durations["SEARCH_CACHE_TTL"],
		BooksAPIURL:     booksAPIURL,
		BooksAPIKey:     v.GetString("BOOKS_API_KEY"),
		BooksAPITimeout: durations["BOOKS_API_TIMEOUT"],
		WebhookTimeout:  durations["WEBHOOK_TIMEOUT"],
		ReadTimeout:     durations["READ_TIMEOUT"],
		WriteTimeout:    durations["WRITE_TIMEOUT"],
		IdleTimeout:     durations["IDLE_TIMEOUT"],
		ShutdownTimeout: durations["SHUTDOWN_TIMEOUT"],
	}, nil
}

func getInt(v *viper.Viper, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(v.GetString(key)))
}

// getDuration parses key as a Go duration. Zero and negative values are
// rejected.
func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
