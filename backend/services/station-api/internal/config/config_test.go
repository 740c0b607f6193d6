package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  environment: production
http:
  port: "8081"
database:
  dsn: postgres://localhost/stations
redis:
  addr: localhost:6379
jwt:
  secret: from-yaml
seed:
  enabled: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DOTENV_FILE", "")
	t.Setenv("STATIONS_JWT_SECRET", "from-env")
	t.Setenv("STATIONS_RATE_LIMIT_REQUESTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("env should override yaml, got %q", cfg.JWT.Secret)
	}
	if !cfg.IsProduction() || !cfg.Seed.Enabled {
		t.Fatalf("unexpected flags %+v", cfg)
	}
	if cfg.HTTPAddress() != ":8081" {
		t.Fatalf("address = %q", cfg.HTTPAddress())
	}
	if cfg.RateLimit.Requests != 3 || cfg.RateLimitWindow() != time.Minute {
		t.Fatalf("rate limit = %d per %v", cfg.RateLimit.Requests, cfg.RateLimitWindow())
	}
	if cfg.JWTExpiration() != 7*24*time.Hour {
		t.Fatalf("jwt expiration = %v", cfg.JWTExpiration())
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Database.DSN = "postgres://x"
		c.JWT.Secret = "s"
		c.Redis.Addr = "localhost:6379"
		c.RateLimit.Requests = 1
		c.RateLimit.WindowSeconds = 1
		return c
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"dsn":        func(c *Config) { c.Database.DSN = " " },
		"secret":     func(c *Config) { c.JWT.Secret = "" },
		"redis":      func(c *Config) { c.Redis.Addr = "" },
		"rate limit": func(c *Config) { c.RateLimit.Requests = 0 },
	}
	for name, mutate := range cases {
		c := valid()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestDerivedDefaults(t *testing.T) {
	c := &Config{}
	if c.IsProduction() {
		t.Fatalf("empty environment is not production")
	}
	if c.HTTPAddress() != ":5000" || c.PingInterval() != 30*time.Second || c.WriteTimeout() != 10*time.Second {
		t.Fatalf("unexpected defaults %q %v %v", c.HTTPAddress(), c.PingInterval(), c.WriteTimeout())
	}
	c.HTTP.Port = "127.0.0.1:9000"
	if c.HTTPAddress() != "127.0.0.1:9000" {
		t.Fatalf("host:port should pass through, got %q", c.HTTPAddress())
	}
}
