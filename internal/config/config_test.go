package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.DBName != "coursehub" {
		t.Errorf("expected default dbname coursehub, got %s", cfg.Database.DBName)
	}
	if cfg.Access.Mode != AccessModeOpen {
		t.Errorf("expected default access mode open, got %s", cfg.Access.Mode)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
database:
  host: db.internal
  dbname: coursehub_test
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.DBName != "coursehub_test" {
		t.Errorf("expected dbname coursehub_test, got %s", cfg.Database.DBName)
	}
	// Unspecified values keep their defaults.
	if cfg.Database.Port != "5432" {
		t.Errorf("expected default db port 5432, got %s", cfg.Database.Port)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected env to win over file: got %s", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("expected MaxOpenConns 50, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoadConfigBearerModeRequiresSecret(t *testing.T) {
	path := writeConfigFile(t, `
access:
  mode: bearer
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for bearer mode without secret")
	}

	path = writeConfigFile(t, `
access:
  mode: bearer
  secret: super-secret
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Access.Mode != AccessModeBearer {
		t.Errorf("expected bearer mode, got %s", cfg.Access.Mode)
	}
}

func TestLoadConfigUnknownAccessMode(t *testing.T) {
	path := writeConfigFile(t, `
access:
  mode: wide-open
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown access mode")
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.DBName = "coursehub"
	cfg.Database.SSLMode = "require"

	want := "postgres://app:pw@db.internal:5433/coursehub?sslmode=require"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("connection string mismatch:\n got %s\nwant %s", got, want)
	}
}
