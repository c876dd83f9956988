package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/newthinker/trendkit/internal/core"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

storage:
  type: localfs
  path: "/tmp/trendkit/archive"

indicators:
  psar:
    acceleration: 0.01
    maximum: 0.1
  supertrend:
    length: 7
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Type)
	}
	if cfg.Indicators.PSAR.Acceleration != 0.01 || cfg.Indicators.PSAR.Maximum != 0.1 {
		t.Errorf("unexpected psar config: %+v", cfg.Indicators.PSAR)
	}
	if cfg.Indicators.Supertrend.Length != 7 {
		t.Errorf("expected supertrend length 7, got %d", cfg.Indicators.Supertrend.Length)
	}

	// not in the file, so the default survives
	if cfg.Indicators.Supertrend.Multiplier != 3.0 {
		t.Errorf("expected default multiplier 3.0, got %v", cfg.Indicators.Supertrend.Multiplier)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected default 4 workers, got %d", cfg.Batch.Workers)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_TRENDKIT_SECRET", "s3cr3t")

	content := []byte(`
storage:
  type: s3
  s3:
    bucket: results
    region: us-east-1
    secret_key: "${TEST_TRENDKIT_SECRET}"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.S3.SecretKey != "s3cr3t" {
		t.Errorf("expected expanded secret, got %q", cfg.Storage.S3.SecretKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Indicators.PSAR.Acceleration != 0.02 || cfg.Indicators.PSAR.Maximum != 0.2 {
		t.Errorf("unexpected psar defaults: %+v", cfg.Indicators.PSAR)
	}
	if cfg.Indicators.ATR.Length != 14 {
		t.Errorf("expected atr length 14, got %d", cfg.Indicators.ATR.Length)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3"; c.Storage.S3.Region = "eu-west-1" }, true},
		{"no storage", func(c *Config) { c.Storage.Type = "" }, false},
		{"psar step above cap", func(c *Config) { c.Indicators.PSAR.Acceleration = 0.5 }, true},
		{"supertrend zero length", func(c *Config) { c.Indicators.Supertrend.Length = 0 }, true},
		{"atr negative length", func(c *Config) { c.Indicators.ATR.Length = -1 }, true},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, true},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	cfg.Storage.Type = "s3"
	cfg.Batch.Workers = 0

	err := cfg.Validate()
	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", len(errs), err)
	}
	if !errors.Is(err, core.ErrConfigMissing) || !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("expected both missing and invalid codes in %v", err)
	}
}
