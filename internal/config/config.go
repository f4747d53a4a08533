package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the variable holding the YAML config path
const ConfigPathEnv = "NC_CONFIG"

const defaultConfigPath = "config.yaml"

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Backend     BackendConfig     `yaml:"backend"`
	Stream      StreamConfig      `yaml:"stream"`
	View        ViewConfig        `yaml:"view"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type BackendConfig struct {
	BaseURL           string        `yaml:"base_url"`
	StreamURLTemplate string        `yaml:"stream_url_template"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

type StreamConfig struct {
	BufferSize int           `yaml:"buffer_size"`
	KeepAlive  time.Duration `yaml:"keep_alive"`
	Retry      RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

type ViewConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type MarketplaceConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// Default returns the configuration used for any field a file leaves unset
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:           "http://localhost:8000",
			StreamURLTemplate: "ws://localhost:8000/ws/bids/{listing_id}",
			RequestTimeout:    10 * time.Second,
		},
		Stream: StreamConfig{
			BufferSize: 64,
			KeepAlive:  20 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:       5,
				BaseDelay:         500 * time.Millisecond,
				MaxDelay:          15 * time.Second,
				BackoffMultiplier: 2,
			},
		},
		View: ViewConfig{
			TickInterval:    time.Second,
			RefreshInterval: 30 * time.Second,
		},
		Marketplace: MarketplaceConfig{
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load reads .env (if present), the YAML file at path (if present) and the
// environment overrides, then validates the result. An empty path falls back
// to NC_CONFIG and then config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("BACKEND_URL")); v != "" {
		c.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAM_URL_TEMPLATE")); v != "" {
		c.Backend.StreamURLTemplate = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if !strings.Contains(c.Backend.StreamURLTemplate, "{listing_id}") {
		return fmt.Errorf("backend.stream_url_template must contain {listing_id}")
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("backend.request_timeout must be greater than 0")
	}
	if c.Stream.BufferSize <= 0 {
		return fmt.Errorf("stream.buffer_size must be greater than 0")
	}
	if c.Stream.KeepAlive <= 0 {
		return fmt.Errorf("stream.keep_alive must be greater than 0")
	}
	if c.Stream.Retry.MaxAttempts < 0 {
		return fmt.Errorf("stream.retry.max_attempts must not be negative")
	}
	if c.Stream.Retry.BaseDelay <= 0 || c.Stream.Retry.MaxDelay < c.Stream.Retry.BaseDelay {
		return fmt.Errorf("stream.retry delays must satisfy 0 < base_delay <= max_delay")
	}
	if c.Stream.Retry.BackoffMultiplier < 1 {
		return fmt.Errorf("stream.retry.backoff_multiplier must be at least 1")
	}
	if c.View.TickInterval <= 0 {
		return fmt.Errorf("view.tick_interval must be greater than 0")
	}
	if c.View.RefreshInterval < 0 {
		return fmt.Errorf("view.refresh_interval must not be negative")
	}
	if c.Marketplace.RequestsPerSecond > 0 && c.Marketplace.BurstSize <= 0 {
		return fmt.Errorf("marketplace.burst_size must be greater than 0 when rate limiting is enabled")
	}
	if c.Logging.MaxAge < 0 {
		return fmt.Errorf("logging.max_age must not be negative")
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
