package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Manager owns the connection pool and the schema lifecycle of the embedded
// store. It is the only component that opens or closes connections.
type Manager struct {
	cfg      Config
	poolSize int
	log      *zap.SugaredLogger

	mu       sync.RWMutex
	db       *gorm.DB
	sqlDB    *sql.DB
	shutdown bool
}

// NewManager creates a database manager. No connection is opened until
// Initialize is called.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	return &Manager{cfg: *config, log: logger.Named("database")}, nil
}

// Initialize opens the pool, applies migrations and seeds the default
// categories into an empty store. Calling it again once the pool exists is a
// no-op. A manager that has been shut down cannot be initialized again.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return nil
	}
	if m.shutdown {
		return apperrors.WithMessage(apperrors.ErrStorageUnavailable, "connection provider has been shut down")
	}

	if err := ensureDir(&m.cfg); err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(m.cfg.DSN()), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(m.cfg.gormLogLevel()),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}

	poolSize := m.cfg.PoolSize
	if m.cfg.PrivateMemory() {
		poolSize = 1
	}
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetMaxIdleConns(poolSize)
	if !m.cfg.InMemory() {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return err
	}

	seeded, err := seedDefaultCategories(ctx, db)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}

	m.db = db
	m.sqlDB = sqlDB
	m.poolSize = poolSize
	m.log.Infow("database initialized",
		"pool_size", poolSize,
		"acquire_timeout", m.cfg.AcquireTimeout,
		"in_memory", m.cfg.InMemory(),
		"seeded_defaults", seeded,
	)
	return nil
}

// runMigrations applies pending SQL migrations from the embedded migrations/ directory.
func runMigrations(sqlDB *sql.DB) error {
	mig, err := newMigrate(sqlDB)
	if err != nil {
		return err
	}
	// The migrate instance is not closed: its database driver would close the
	// shared pool along with it.

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// ensureDir creates the parent directory of a file-backed database.
func ensureDir(cfg *Config) error {
	dir := cfg.Dir()
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}

// Acquire pins one pooled connection for the duration of fn and hands fn a
// gorm handle bound to it. The connection goes back to the pool on every exit
// path, panics included. Waiting for a free connection is bounded by the
// configured acquire timeout.
func (m *Manager) Acquire(ctx context.Context, fn func(db *gorm.DB) error) error {
	m.mu.RLock()
	db, sqlDB := m.db, m.sqlDB
	m.mu.RUnlock()

	if db == nil {
		return apperrors.ErrStorageUnavailable
	}

	acquireCtx, cancel := context.WithTimeout(ctx, m.cfg.AcquireTimeout)
	conn, err := sqlDB.Conn(acquireCtx)
	cancel()
	if err != nil {
		return m.acquireError(ctx, err)
	}
	defer conn.Close()

	tx := db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = conn
	return fn(tx)
}

func (m *Manager) acquireError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return apperrors.Wrap(apperrors.ErrStorage, ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		m.log.Warnw("connection pool exhausted",
			"pool_size", m.poolSize,
			"acquire_timeout", m.cfg.AcquireTimeout,
		)
		return apperrors.Wrap(apperrors.ErrPoolExhausted, err)
	case !m.IsInitialized():
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	default:
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
}

// Shutdown closes every pooled connection. Subsequent Acquire calls fail with
// STORAGE_UNAVAILABLE. Calling Shutdown more than once is harmless.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shutdown = true
	if m.sqlDB == nil {
		return nil
	}

	err := m.sqlDB.Close()
	m.db = nil
	m.sqlDB = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	m.log.Info("database connection pool closed")
	return nil
}

// IsInitialized reports whether the pool is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db != nil
}

// Stats returns pool statistics. The zero value is returned when the pool is closed.
func (m *Manager) Stats() sql.DBStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sqlDB == nil {
		return sql.DBStats{}
	}
	return m.sqlDB.Stats()
}

// DB returns the pooled GORM handle, or nil when the pool is closed. It is
// meant for fixtures and tooling; domain code goes through Acquire.
func (m *Manager) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}
