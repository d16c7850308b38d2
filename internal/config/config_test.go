package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DB_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "memory")
	}
	if cfg.Store.MaxConns != 10 {
		t.Errorf("Store.MaxConns = %d, want %d", cfg.Store.MaxConns, 10)
	}
	if cfg.Import.ConflictPolicy != "skip" {
		t.Errorf("Import.ConflictPolicy = %q, want %q", cfg.Import.ConflictPolicy, "skip")
	}
	if !cfg.Import.SaveSession {
		t.Error("Import.SaveSession = false, want true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("IMPORT_CONFLICT_POLICY", "update")
	os.Setenv("DB_MAX_CONNS", "20")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("IMPORT_CONFLICT_POLICY")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Import.ConflictPolicy != "update" {
		t.Errorf("Import.ConflictPolicy = %q, want %q", cfg.Import.ConflictPolicy, "update")
	}
	if cfg.Store.MaxConns != 20 {
		t.Errorf("Store.MaxConns = %d, want %d", cfg.Store.MaxConns, 20)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that DB_URL works as fallback
	os.Setenv("STORE_BACKEND", "postgres")
	os.Setenv("DB_URL", "postgres://localhost/alttest")
	defer func() {
		os.Unsetenv("STORE_BACKEND")
		os.Unsetenv("DB_URL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.DatabaseURL != "postgres://localhost/alttest" {
		t.Errorf("Store.DatabaseURL = %q, want %q", cfg.Store.DatabaseURL, "postgres://localhost/alttest")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	os.Setenv("STORE_BACKEND", "postgres")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DB_URL")
	defer os.Unsetenv("STORE_BACKEND")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for postgres backend without DATABASE_URL")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("IMPORT_TIMEOUT", "1m30s")
	os.Setenv("SOURCE_FETCH_TIMEOUT", "45s")
	defer func() {
		os.Unsetenv("IMPORT_TIMEOUT")
		os.Unsetenv("SOURCE_FETCH_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Import.Timeout != 90*time.Second {
		t.Errorf("Import.Timeout = %v, want %v", cfg.Import.Timeout, 90*time.Second)
	}
	if cfg.Source.FetchTimeout != 45*time.Second {
		t.Errorf("Source.FetchTimeout = %v, want %v", cfg.Source.FetchTimeout, 45*time.Second)
	}
}

func TestValidate_InvalidConflictPolicy(t *testing.T) {
	os.Setenv("IMPORT_CONFLICT_POLICY", "ask")
	defer os.Unsetenv("IMPORT_CONFLICT_POLICY")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid IMPORT_CONFLICT_POLICY")
	}
}

func TestValidate_InvalidBackend(t *testing.T) {
	os.Setenv("STORE_BACKEND", "sqlite")
	defer os.Unsetenv("STORE_BACKEND")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid STORE_BACKEND")
	}
}
