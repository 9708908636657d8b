// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string `yaml:"token"`
	WebhookURL  string `yaml:"webhook_url"`  // public URL registered with Telegram at startup
	APIEndpoint string `yaml:"api_endpoint"` // e.g. https://api.telegram.org/bot%s/%s
	// AnswerCallbacks acknowledges button clicks so Telegram clears the spinner.
	AnswerCallbacks bool `yaml:"answer_callbacks"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogFileConfig struct {
	Path       string `yaml:"path"` // empty disables file output
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type LogConfig struct {
	Level    string        `yaml:"level"`    // trace|debug|info|warn|error
	Format   string        `yaml:"format"`   // json|console
	Sampling bool          `yaml:"sampling"` // enable sampling in prod
	File     LogFileConfig `yaml:"file"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// loads .env into the process environment, applies environment overrides and defaults,
// and validates the required settings.
func LoadConfig(path string, dev bool) (*Config, error) {
	cfg := Config{
		Metrics: MetricsConfig{Enabled: true},
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// env-only deployment
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		cfg.Bot.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_WEBHOOK_URL")); v != "" {
		cfg.Bot.WebhookURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.HTTP.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.APIEndpoint == "" {
		cfg.Bot.APIEndpoint = "https://api.telegram.org/bot%s/%s"
	}
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.File.Path != "" {
		if cfg.Log.File.MaxSizeMB <= 0 {
			cfg.Log.File.MaxSizeMB = 50
		}
		if cfg.Log.File.MaxBackups <= 0 {
			cfg.Log.File.MaxBackups = 5
		}
		if cfg.Log.File.MaxAgeDays <= 0 {
			cfg.Log.File.MaxAgeDays = 30
		}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.Bot.Token) == "" {
		missing = append(missing, "bot.token")
	}
	if strings.TrimSpace(c.Bot.WebhookURL) == "" {
		missing = append(missing, "bot.webhook_url")
	}
	if len(missing) > 0 {
		return errors.New("missing required settings: " + strings.Join(missing, ", "))
	}
	if !strings.Contains(c.Bot.APIEndpoint, "%s") {
		return fmt.Errorf("bot.api_endpoint must contain token and method placeholders: %q", c.Bot.APIEndpoint)
	}
	return nil
}
