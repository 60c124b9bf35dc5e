package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Logging.Level != "info" {
		t.Errorf("unexpected log level: %s", cfg.Logging.Level)
	}
	if cfg.Cache.Dir != "downloads" {
		t.Errorf("unexpected cache dir: %s", cfg.Cache.Dir)
	}
	if cfg.Scheduler.Enabled {
		t.Error("scheduler should be off by default")
	}
	if cfg.Vision.MinConfidence != 0.5 {
		t.Errorf("unexpected min confidence: %v", cfg.Vision.MinConfidence)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := `
logging:
  level: debug
inventory:
  container: uploads
  prefix: cam1/
scheduler:
  enabled: true
  interval: 30m
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv("DATABASE_DSN", "postgres://ci@db:5432/test")
	t.Setenv("INVENTORY_CONTAINER", "uploads-ci")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Errorf("file override lost: %s", cfg.Logging.Level)
	}
	if cfg.Inventory.Prefix != "cam1/" {
		t.Errorf("unexpected prefix: %s", cfg.Inventory.Prefix)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.IntervalDuration() != 30*time.Minute {
		t.Errorf("unexpected scheduler config: %+v", cfg.Scheduler)
	}

	// Environment wins over the file.
	if cfg.Database.DSN != "postgres://ci@db:5432/test" {
		t.Errorf("env override lost: %s", cfg.Database.DSN)
	}
	if cfg.Inventory.Container != "uploads-ci" {
		t.Errorf("env override lost: %s", cfg.Inventory.Container)
	}
}
