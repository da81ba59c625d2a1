package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatasetConfig points at the transactions file. An empty Path selects the
// embedded sample dataset.
type DatasetConfig struct {
	Path        string
	LoadTimeout time.Duration
}

type LoggerConfig struct {
	Level   string
	Format  string
	Service string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

var defaults = map[string]any{
	"SERVER_HOST":                 "localhost",
	"SERVER_PORT":                 8084,
	"SERVER_READ_TIMEOUT":         10 * time.Second,
	"SERVER_WRITE_TIMEOUT":        10 * time.Second,
	"SERVER_IDLE_TIMEOUT":         60 * time.Second,
	"SERVER_SHUTDOWN_TIMEOUT":     30 * time.Second,
	"DATASET_PATH":                "",
	"DATASET_LOAD_TIMEOUT":        30 * time.Second,
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"SERVICE_NAME":                "sales-dashboard",
	"SECURITY_RATE_LIMIT_ENABLED": true,
	"SECURITY_RATE_LIMIT_RPS":     100,
	"SECURITY_RATE_LIMIT_BURST":   10,
	"SECURITY_ALLOWED_ORIGINS":    "http://localhost:8084",
	"SECURITY_TRUSTED_PROXIES":    "127.0.0.1",
	"CACHE_SIZE":                  128,
	"CACHE_TTL":                   5 * time.Minute,
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads the configuration through v, layering the environment over
// the built-in defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Dataset: DatasetConfig{
			Path:        v.GetString("DATASET_PATH"),
			LoadTimeout: v.GetDuration("DATASET_LOAD_TIMEOUT"),
		},
		Logger: LoggerConfig{
			Level:   strings.ToLower(v.GetString("LOG_LEVEL")),
			Format:  strings.ToLower(v.GetString("LOG_FORMAT")),
			Service: v.GetString("SERVICE_NAME"),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("SECURITY_RATE_LIMIT_ENABLED"),
			RateLimitRPS:    v.GetInt("SECURITY_RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("SECURITY_RATE_LIMIT_BURST"),
			AllowedOrigins:  splitList(v.GetString("SECURITY_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("SECURITY_TRUSTED_PROXIES")),
		},
		Cache: CacheConfig{
			Size: v.GetInt("CACHE_SIZE"),
			TTL:  v.GetDuration("CACHE_TTL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.LoadTimeout <= 0 {
		return fmt.Errorf("dataset load timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Cache.Size < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", c.Cache.Size)
	}

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
