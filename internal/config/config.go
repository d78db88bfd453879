package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración del servicio, cargada de YAML con
// overrides por variables de entorno.
type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		// driver: "memory" | "postgres"
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	Cache struct {
		// kind: "memory" | "redis"
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr string `yaml:"addr"`
			DB   int    `yaml:"db"`
		} `yaml:"redis"`
		ProviderTTL string `yaml:"provider_ttl"`
	} `yaml:"cache"`

	Lockout struct {
		// CountWindow acota la query al log de auditoría.
		CountWindow string `yaml:"count_window"`
		// LockoutPeriod es el requisito efectivo de recencia de fallas.
		LockoutPeriod string `yaml:"lockout_period"`
		MaxFailures   int    `yaml:"max_failures"`
	} `yaml:"lockout"`
}

// Load lee y parsea la configuración desde un YAML.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromEnv arma la configuración solo de defaults + entorno (sin YAML).
func FromEnv() *Config {
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.ProviderTTL == "" {
		c.Cache.ProviderTTL = "30s"
	}
	if c.Lockout.CountWindow == "" {
		c.Lockout.CountWindow = "1h"
	}
	if c.Lockout.LockoutPeriod == "" {
		c.Lockout.LockoutPeriod = "5m"
	}
	if c.Lockout.MaxFailures == 0 {
		c.Lockout.MaxFailures = 5
	}
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("LOCKOUT_COUNT_WINDOW"); ok {
		c.Lockout.CountWindow = v
	}
	if v, ok := getEnvStr("LOCKOUT_PERIOD"); ok {
		c.Lockout.LockoutPeriod = v
	}
	if v, ok := getEnvInt("LOCKOUT_MAX_FAILURES"); ok {
		c.Lockout.MaxFailures = v
	}
}

// Validate chequea consistencia mínima.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: postgres driver requires dsn")
	}
	if _, err := c.LockoutCountWindow(); err != nil {
		return fmt.Errorf("config: lockout count_window: %w", err)
	}
	if _, err := c.LockoutPeriod(); err != nil {
		return fmt.Errorf("config: lockout lockout_period: %w", err)
	}
	return nil
}

// LockoutCountWindow parsea la ventana de conteo.
func (c *Config) LockoutCountWindow() (time.Duration, error) {
	return time.ParseDuration(c.Lockout.CountWindow)
}

// LockoutPeriod parsea el período de lockout.
func (c *Config) LockoutPeriod() (time.Duration, error) {
	return time.ParseDuration(c.Lockout.LockoutPeriod)
}

// ProviderCacheTTL parsea el TTL del cache de providers.
func (c *Config) ProviderCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.ProviderTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
