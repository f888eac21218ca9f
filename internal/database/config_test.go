package database

import (
	"strings"
	"testing"
)

func TestConfigDSN(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		prefix   string
		contains []string
		excludes []string
	}{
		{
			name:     "file_path",
			url:      "db/expense_tracker.db",
			prefix:   "file:db/expense_tracker.db?",
			contains: []string{"_foreign_keys=on", "_busy_timeout=5000", "_journal_mode=WAL", "_synchronous=NORMAL"},
		},
		{
			name:     "shared_memory",
			url:      "file:test?mode=memory&cache=shared",
			prefix:   "file:test?mode=memory&cache=shared&",
			contains: []string{"_foreign_keys=on"},
			excludes: []string{"_journal_mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{URL: tt.url}
			dsn := cfg.DSN()

			if !strings.HasPrefix(dsn, tt.prefix) {
				t.Errorf("expected DSN %q to start with %q", dsn, tt.prefix)
			}
			for _, want := range tt.contains {
				if !strings.Contains(dsn, want) {
					t.Errorf("expected DSN %q to contain %q", dsn, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(dsn, unwanted) {
					t.Errorf("expected DSN %q not to contain %q", dsn, unwanted)
				}
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	if dir := (&Config{URL: "file:data/app.db?cache=shared"}).Dir(); dir != "data" {
		t.Errorf("expected dir data, got %q", dir)
	}
	if dir := (&Config{URL: ":memory:"}).Dir(); dir != "" {
		t.Errorf("expected no dir for an in-memory database, got %q", dir)
	}
}

func TestConfigPrivateMemory(t *testing.T) {
	tests := map[string]bool{
		":memory:":                              true,
		"file::memory:":                         true,
		":memory:?_loc=auto":                    true,
		"file:scratch?mode=memory":              true,
		"file:scratch?mode=memory&cache=shared": false,
		"file::memory:?cache=shared":            false,
		"db/expense_tracker.db":                 false,
	}

	for url, want := range tests {
		if got := (&Config{URL: url}).PrivateMemory(); got != want {
			t.Errorf("PrivateMemory(%q) = %v, want %v", url, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{URL: DefaultURL, PoolSize: 1, AcquireTimeout: DefaultAcquireTimeout}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]Config{
		"empty_url":     {URL: " ", PoolSize: 1, AcquireTimeout: DefaultAcquireTimeout},
		"zero_pool":     {URL: DefaultURL, PoolSize: 0, AcquireTimeout: DefaultAcquireTimeout},
		"zero_timeout":  {URL: DefaultURL, PoolSize: 1},
		"bad_log_level": {URL: DefaultURL, PoolSize: 1, AcquireTimeout: DefaultAcquireTimeout, LogLevel: "loud"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_POOL_SIZE", "")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.URL != DefaultURL || cfg.PoolSize != DefaultPoolSize || cfg.AcquireTimeout != DefaultAcquireTimeout {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	t.Setenv("DB_POOL_SIZE", "many")
	if _, err := NewConfig(); err == nil {
		t.Error("expected an error for a non-numeric pool size")
	}
}
