// Package config loads server settings from an optional YAML file and the environment.
// Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/pkg/logging"
)

// DefaultPath is read when CONFIG_PATH is unset. It may be absent.
const DefaultPath = "config.yaml"

// Config holds the server settings.
type Config struct {
	Port            int           `yaml:"port"`
	DBPath          string        `yaml:"db_path"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	LogLevel        string        `yaml:"log_level"`
	DefaultCurrency string        `yaml:"default_currency"`
	AllowedOrigin   string        `yaml:"allowed_origin"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Port:            8080,
		DBPath:          "./data/tabout.db",
		TokenTTL:        24 * time.Hour,
		LogLevel:        "info",
		DefaultCurrency: models.DefaultCurrency,
		AllowedOrigin:   "*",
	}
}

// Load reads the file at path (DefaultPath when empty), then applies environment overrides.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = ttl
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("DEFAULT_CURRENCY"); v != "" {
		c.DefaultCurrency = v
	}
	if v := getenv("ALLOWED_ORIGIN"); v != "" {
		c.AllowedOrigin = v
	}
	c.DefaultCurrency = strings.ToUpper(strings.TrimSpace(c.DefaultCurrency))
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set JWT_SECRET)")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DefaultCurrency == "" {
		return errors.New("default_currency is required")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
