package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codr1/leaguedesk/internal/gateway"
)

const sampleYAML = `
app:
  name: leaguedesk
  environment: development
  port: 9090
backend:
  base_url: http://api.test:5000
  timeout: 3s
  key_style: bracket
lists:
  default_limit: 25
  limit_options: [10, 25]
  search_delay: 150ms
directory:
  refresh_interval: 1m
auth:
  session_ttl: 2h
`

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Fatalf("port = %d", cfg.App.Port)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Lists.SearchDelay != 150*time.Millisecond {
		t.Fatalf("search delay = %v", cfg.Lists.SearchDelay)
	}
	// Left out of the yaml, so the default survives.
	if cfg.Auth.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d", cfg.Auth.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	gw, err := cfg.GatewayConfig()
	if err != nil {
		t.Fatalf("GatewayConfig: %v", err)
	}
	if gw.KeyStyle != gateway.BracketKeys || gw.BaseURL != "http://api.test:5000" {
		t.Fatalf("gateway config = %+v", gw)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.App.Port = 0 }, "port"},
		{"missing backend", func(c *Config) { c.Backend.BaseURL = "" }, "base_url"},
		{"bad key style", func(c *Config) { c.Backend.KeyStyle = "colon" }, "key style"},
		{"limit not offered", func(c *Config) { c.Lists.DefaultLimit = 7 }, "limit_options"},
		{"zero refresh", func(c *Config) { c.Directory.RefreshInterval = 0 }, "refresh_interval"},
		{"production without secret", func(c *Config) { c.App.Environment = "production" }, "APP_SECRET_KEY"},
		{"production with secret", func(c *Config) {
			c.App.Environment = "production"
			c.App.SecretKey = "s3cret"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BACKEND_BASE_URL", "http://override.test")
	t.Setenv("APP_SECRET_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://override.test" {
		t.Fatalf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.App.SecretKey != "from-env" {
		t.Fatalf("secret = %q", cfg.App.SecretKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestRepositoryConfigIsValid(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Theme.Primary != "#0b3d2e" {
		t.Fatalf("theme primary = %q", cfg.Theme.Primary)
	}
}
