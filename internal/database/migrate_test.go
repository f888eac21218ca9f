package database

import (
	"path/filepath"
	"testing"
)

func TestMigrator(t *testing.T) {
	cfg := &Config{
		URL:            filepath.Join(t.TempDir(), "migrate.db"),
		PoolSize:       1,
		AcquireTimeout: DefaultAcquireTimeout,
	}

	mg, err := NewMigrator(cfg)
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}
	defer mg.Close()

	version, _, err := mg.Version()
	if err != nil || version != 0 {
		t.Fatalf("expected version 0 before migrating, got %d (%v)", version, err)
	}

	if err := mg.Up(); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := mg.Up(); err != nil {
		t.Fatalf("second Up should be a no-op: %v", err)
	}

	version, dirty, err := mg.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("expected clean version 1, got %d (dirty=%v)", version, dirty)
	}

	if err := mg.Down(1); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if err := mg.Down(0); err == nil {
		t.Error("expected an error for a zero step count")
	}
}
