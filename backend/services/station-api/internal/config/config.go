package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evstations/backend/libs/config"
)

const production = "production"

// Config represents service configuration loaded from YAML/env.
type Config struct {
	App struct {
		Environment string `yaml:"environment" env:"APP_ENV"`
	} `yaml:"app"`
	HTTP struct {
		Port string `yaml:"port" env:"STATIONS_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"STATIONS_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"STATIONS_REDIS_ADDR"`
		Password string `yaml:"password" env:"STATIONS_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"STATIONS_REDIS_DB"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"STATIONS_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"STATIONS_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	RateLimit struct {
		Requests      int `yaml:"requests" env:"STATIONS_RATE_LIMIT_REQUESTS"`
		WindowSeconds int `yaml:"windowSeconds" env:"STATIONS_RATE_LIMIT_WINDOW_SECONDS"`
	} `yaml:"rateLimit"`
	WebSocket struct {
		PingIntervalSeconds int `yaml:"pingIntervalSeconds" env:"STATIONS_WS_PING_SECONDS"`
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"STATIONS_WS_WRITE_TIMEOUT_SECONDS"`
	} `yaml:"websocket"`
	Seed struct {
		Enabled bool `yaml:"enabled" env:"STATIONS_SEED_ENABLED"`
	} `yaml:"seed"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.App.Environment = "development"
	cfg.HTTP.Port = "5000"
	cfg.JWT.ExpiresInMinutes = 7 * 24 * 60
	cfg.RateLimit.Requests = 20
	cfg.RateLimit.WindowSeconds = 60
	cfg.WebSocket.PingIntervalSeconds = 30
	cfg.WebSocket.WriteTimeoutSeconds = 10
	cfg.Log.Level = "info"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret is required")
	}
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("config: redis addr is required")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("config: rate limit must be positive, got %d per %ds", c.RateLimit.Requests, c.RateLimit.WindowSeconds)
	}
	return nil
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.App.Environment), production)
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "5000"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// RateLimitWindow is the login limiter window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// PingInterval is the WebSocket keepalive period.
func (c *Config) PingInterval() time.Duration {
	return seconds(c.WebSocket.PingIntervalSeconds, 30)
}

// WriteTimeout bounds a single WebSocket write.
func (c *Config) WriteTimeout() time.Duration {
	return seconds(c.WebSocket.WriteTimeoutSeconds, 10)
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
