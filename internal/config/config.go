package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes environment overrides. Nested keys use a double
// underscore: FITFUEL_LOG__LEVEL sets log.level.
const EnvPrefix = "FITFUEL_"

type Config struct {
	DatabaseURI     string          `koanf:"database_uri"`
	TelegramToken   string          `koanf:"telegram_token"`
	StatePath       string          `koanf:"state_path"`
	DefaultTimezone string          `koanf:"default_timezone"`
	Log             LogConfig       `koanf:"log"`
	Scheduler       SchedulerConfig `koanf:"scheduler"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	Env   string `koanf:"env"` // "production" or "development"
}

// SchedulerConfig intervals are in seconds.
type SchedulerConfig struct {
	CheckInterval    int `koanf:"check_interval"`
	FallbackInterval int `koanf:"fallback_interval"`
	StartupDelay     int `koanf:"startup_delay"`
}

// Load layers defaults, an optional YAML file and the environment, in that
// order. A .env file in the working directory is loaded first if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load() // .env file is optional in production

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Bare DATABASE_URI and TELEGRAM_TOKEN fill in when nothing else set them.
	for key, name := range map[string]string{
		"database_uri":   "DATABASE_URI",
		"telegram_token": "TELEGRAM_TOKEN",
	} {
		if v := os.Getenv(name); v != "" && k.String(key) == "" {
			k.Set(key, v)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURI == "" {
		errs = append(errs, errors.New("DATABASE_URI is required"))
	}
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Scheduler.CheckInterval <= 0 {
		errs = append(errs, errors.New("scheduler.check_interval must be positive"))
	}
	if c.Scheduler.FallbackInterval <= 0 {
		errs = append(errs, errors.New("scheduler.fallback_interval must be positive"))
	}
	return errors.Join(errs...)
}
