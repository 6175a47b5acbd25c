package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Mock       MockConfig       `yaml:"mock"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type APIConfig struct {
	BaseURL         string             `yaml:"base_url"`
	Timeout         time.Duration      `yaml:"timeout"`
	PreflightExpiry bool               `yaml:"preflight_expiry"`
	RateLimit       APIRateLimitConfig `yaml:"rate_limit"`
	Retry           RetryConfig        `yaml:"retry"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
}

type SessionConfig struct {
	Backend           string        `yaml:"backend"`
	SQLitePath        string        `yaml:"sqlite_path"`
	TTL               time.Duration `yaml:"ttl"`
	ExpiryNoticeDelay time.Duration `yaml:"expiry_notice_delay"`
	RedirectRoute     string        `yaml:"redirect_route"`
}

type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type MockConfig struct {
	Port          int           `yaml:"port"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	ExpiredTokens []string      `yaml:"expired_tokens"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	Seed          bool          `yaml:"seed"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads .env (when present), expands environment references in the
// YAML file at configPath, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base_url must be an absolute http(s) url, got %q", c.API.BaseURL)
	}

	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendSQLite:
	case SessionBackendRedis:
		if c.Redis.Address == "" {
			return errors.New("session backend redis requires redis.address")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if !strings.HasPrefix(c.Session.RedirectRoute, "/") {
		return fmt.Errorf("session redirect_route must start with '/', got %q", c.Session.RedirectRoute)
	}

	if c.API.Retry.MaxAttempts < 1 {
		return errors.New("api retry max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "bazaarku"
	}
	c.API.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.API.RateLimit.RPS > 0 && c.API.RateLimit.Burst <= 0 {
		c.API.RateLimit.Burst = 5
	}
	if c.API.Retry.MaxAttempts == 0 {
		c.API.Retry.MaxAttempts = 1
	}
	if c.API.Retry.InitialDelay == 0 {
		c.API.Retry.InitialDelay = 500 * time.Millisecond
	}
	if c.API.Retry.BackoffFactor == 0 {
		c.API.Retry.BackoffFactor = 2
	}

	if c.Session.Backend == "" {
		c.Session.Backend = SessionBackendSQLite
	}
	if c.Session.SQLitePath == "" {
		c.Session.SQLitePath = "data/session.db"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 7 * 24 * time.Hour
	}
	if c.Session.ExpiryNoticeDelay == 0 {
		c.Session.ExpiryNoticeDelay = 1500 * time.Millisecond
	}
	if c.Session.RedirectRoute == "" {
		c.Session.RedirectRoute = "/"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "bazaarku:session:"
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Mock.Port == 0 {
		c.Mock.Port = 8080
	}
	if c.Mock.TokenTTL == 0 {
		c.Mock.TokenTTL = 24 * time.Hour
	}
	if c.Mock.AdminEmail == "" {
		c.Mock.AdminEmail = "admin@bazaarku.local"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
