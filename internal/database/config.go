package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

// Defaults applied when the corresponding environment variable is absent.
const (
	DefaultURL            = "db/expense_tracker.db"
	DefaultPoolSize       = 5
	DefaultAcquireTimeout = 5 * time.Second
	DefaultBusyTimeout    = 5 * time.Second
)

// Config holds database configuration
type Config struct {
	// URL is a SQLite file path or "file:" URI. Query parameters already
	// present are preserved.
	URL string
	// PoolSize caps the number of concurrently open connections.
	PoolSize int
	// AcquireTimeout bounds how long Acquire waits for a free connection.
	AcquireTimeout time.Duration
	// LogLevel is the gorm statement log level: silent, error, warn or info.
	LogLevel string
}

// NewConfig creates a new database configuration from the environment.
func NewConfig() (*Config, error) {
	// A missing .env file is fine; environment variables and defaults apply.
	_ = godotenv.Load()

	poolSize, err := strconv.Atoi(getEnv("DB_POOL_SIZE", strconv.Itoa(DefaultPoolSize)))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_POOL_SIZE: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("DB_ACQUIRE_TIMEOUT", DefaultAcquireTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ACQUIRE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		URL:            getEnv("DB_URL", DefaultURL),
		PoolSize:       poolSize,
		AcquireTimeout: timeout,
		LogLevel:       getEnv("DB_LOG_LEVEL", "silent"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pool cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("database url is required")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool size must be at least 1, got %d", c.PoolSize)
	}
	if c.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire timeout must be positive, got %s", c.AcquireTimeout)
	}
	if _, ok := gormLogLevels[strings.ToLower(c.LogLevel)]; !ok && c.LogLevel != "" {
		return fmt.Errorf("unknown db log level %q", c.LogLevel)
	}
	return nil
}

// DSN returns the go-sqlite3 connection string with the pragmas the store
// relies on: enforced foreign keys, WAL journaling and a busy timeout.
func (c *Config) DSN() string {
	dsn := c.URL
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	params := []string{
		"_foreign_keys=on",
		fmt.Sprintf("_busy_timeout=%d", DefaultBusyTimeout.Milliseconds()),
	}
	if !c.InMemory() {
		params = append(params, "_journal_mode=WAL", "_synchronous=NORMAL")
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// InMemory reports whether the URL names an in-memory database.
func (c *Config) InMemory() bool {
	return strings.Contains(c.URL, ":memory:") || strings.Contains(c.URL, "mode=memory")
}

// PrivateMemory reports whether the URL names an in-memory database that is
// not opened with a shared cache. Each connection to such a database sees its
// own empty store.
func (c *Config) PrivateMemory() bool {
	return c.InMemory() && !strings.Contains(c.URL, "cache=shared")
}

// Dir returns the directory that must exist for a file-backed database, or ""
// for in-memory databases.
func (c *Config) Dir() string {
	if c.InMemory() {
		return ""
	}
	path := strings.TrimPrefix(c.URL, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return filepath.Dir(path)
}

var gormLogLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

func (c *Config) gormLogLevel() gormlogger.LogLevel {
	if lvl, ok := gormLogLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return gormlogger.Silent
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
