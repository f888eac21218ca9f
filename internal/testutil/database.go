// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/database"
	"expensetracker/internal/logger"
)

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// TestDBConfig returns the configuration of a fresh, isolated in-memory
// database. Every call names a different database.
func TestDBConfig(poolSize int) *database.Config {
	n := dbCounter.Add(1)
	return &database.Config{
		URL:            fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n),
		PoolSize:       poolSize,
		AcquireTimeout: 2 * time.Second,
		LogLevel:       "silent",
	}
}

// SetupTestDB creates an initialized Manager over an isolated in-memory
// SQLite database with migrations applied and default categories seeded. The
// manager is shut down when the test finishes.
func SetupTestDB(t *testing.T) *database.Manager {
	t.Helper()
	return SetupTestDBWithConfig(t, TestDBConfig(database.DefaultPoolSize))
}

// SetupTestDBWithConfig is SetupTestDB with an explicit configuration.
func SetupTestDBWithConfig(t *testing.T, cfg *database.Config) *database.Manager {
	t.Helper()
	logger.Init("test")

	mgr, err := database.NewManager(cfg)
	if err != nil {
		t.Fatalf("failed to create database manager: %v", err)
	}
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}

	t.Cleanup(func() { TeardownTestDB(t, mgr) })
	return mgr
}

// TeardownTestDB shuts the manager down. It is safe to call more than once.
func TeardownTestDB(t *testing.T, mgr *database.Manager) {
	t.Helper()

	if err := mgr.Shutdown(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
