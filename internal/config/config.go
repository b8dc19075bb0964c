// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codr1/leaguedesk/internal/gateway"
)

type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	// Nested multipart field naming: "dot" (staf.manager) or "bracket" (staf[manager])
	KeyStyle string `yaml:"key_style"`
}

type ListsConfig struct {
	DefaultLimit int           `yaml:"default_limit"`
	LimitOptions []int         `yaml:"limit_options"`
	SearchDelay  time.Duration `yaml:"search_delay"`
}

type AuthConfig struct {
	SessionTTL   time.Duration `yaml:"session_ttl"`
	MaxAttempts  int           `yaml:"max_attempts"`
	Lockout      time.Duration `yaml:"lockout"`
	MaxIPPerHour int           `yaml:"max_ip_per_hour"`
	TrustProxy   bool          `yaml:"trust_proxy"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// ThemeConfig holds the console brand colours as #rrggbb values.
type ThemeConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Accent    string `yaml:"accent"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Backend BackendConfig `yaml:"backend"`
	Lists   ListsConfig   `yaml:"lists"`

	Directory struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"directory"`

	Auth  AuthConfig  `yaml:"auth"`
	Theme ThemeConfig `yaml:"theme"`

	Features struct {
		EnableDebug bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	if base := os.Getenv("BACKEND_BASE_URL"); base != "" {
		cfg.Backend.BaseURL = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes yaml over the defaults without reading the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Defaults returns the values used for keys the yaml file leaves out.
func Defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "leaguedesk"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Backend = BackendConfig{
		BaseURL:        gateway.DefaultBaseURL,
		Timeout:        gateway.DefaultTimeout,
		MaxUploadBytes: 5 << 20,
		KeyStyle:       "dot",
	}
	cfg.Lists = ListsConfig{
		DefaultLimit: 10,
		LimitOptions: []int{5, 10, 25, 50},
		SearchDelay:  300 * time.Millisecond,
	}
	cfg.Directory.RefreshInterval = 5 * time.Minute
	cfg.Auth = AuthConfig{
		SessionTTL:   12 * time.Hour,
		MaxAttempts:  5,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 30,
	}
	return cfg
}

// IsDevelopment reports whether the console runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "" || c.App.Environment == "development"
}

// GatewayConfig maps the backend section onto the gateway client config.
func (c *Config) GatewayConfig() (gateway.Config, error) {
	style, err := gateway.ParseKeyStyle(c.Backend.KeyStyle)
	if err != nil {
		return gateway.Config{}, err
	}
	return gateway.Config{
		BaseURL:  c.Backend.BaseURL,
		Timeout:  c.Backend.Timeout,
		KeyStyle: style,
	}, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if c.Backend.MaxUploadBytes <= 0 {
		return fmt.Errorf("backend max_upload_bytes must be positive")
	}
	if _, err := gateway.ParseKeyStyle(c.Backend.KeyStyle); err != nil {
		return err
	}
	if c.Lists.DefaultLimit <= 0 {
		return fmt.Errorf("lists default_limit must be positive")
	}
	found := len(c.Lists.LimitOptions) == 0
	for _, option := range c.Lists.LimitOptions {
		if option <= 0 {
			return fmt.Errorf("lists limit_options must be positive, got %d", option)
		}
		if option == c.Lists.DefaultLimit {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("lists default_limit %d is not one of limit_options", c.Lists.DefaultLimit)
	}
	if c.Lists.SearchDelay < 0 {
		return fmt.Errorf("lists search_delay cannot be negative")
	}
	if c.Directory.RefreshInterval <= 0 {
		return fmt.Errorf("directory refresh_interval must be positive")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth session_ttl must be positive")
	}
	if c.Auth.MaxAttempts <= 0 || c.Auth.MaxIPPerHour <= 0 {
		return fmt.Errorf("auth login attempt limits must be positive")
	}
	if c.Auth.Lockout <= 0 {
		return fmt.Errorf("auth lockout must be positive")
	}
	if !c.IsDevelopment() && c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required outside development")
	}
	return nil
}
