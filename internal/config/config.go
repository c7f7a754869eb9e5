package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "tally.yaml"

// Environment variables that override file settings.
const (
	EnvConfig   = "TALLY_CONFIG"
	EnvCurrency = "TALLY_CURRENCY"
	EnvLogLevel = "TALLY_LOG_LEVEL"
	EnvTruncate = "TALLY_TRUNCATE_AT"
)

// Config represents tally.yaml.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// DisplayConfig controls how transactions are rendered.
type DisplayConfig struct {
	Currency   string `yaml:"currency"`
	TruncateAt int    `yaml:"truncate_at"` // description runes shown in the table
	DateLayout string `yaml:"date_layout"` // Go time layout
	Labels     Labels `yaml:"labels"`
}

// Labels are the user-facing captions.
type Labels struct {
	Total       string `yaml:"total"`
	Delete      string `yaml:"delete"`
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	TxnDate     string `yaml:"transaction_date"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tally.yaml file from disk. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvCurrency); v != "" {
		c.Display.Currency = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvTruncate); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvTruncate, v, err)
		}
		c.Display.TruncateAt = n
	}
	return c.Validate()
}

// Validate rejects settings the renderer cannot use.
func (c *Config) Validate() error {
	if c.Display.TruncateAt < 1 {
		return fmt.Errorf("display.truncate_at must be positive, got %d", c.Display.TruncateAt)
	}
	if c.Display.DateLayout == "" {
		return errors.New("display.date_layout must not be empty")
	}
	return nil
}

// Default returns the settings of the original widget: Russian captions and MDL.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Currency:   "MDL",
			TruncateAt: 4,
			DateLayout: "02.01.2006, 15:04:05",
			Labels: Labels{
				Total:       "Всего",
				Delete:      "Удалить",
				ID:          "ID",
				Date:        "Дата",
				Category:    "Категория",
				Description: "Описание",
				Amount:      "Сумма",
				TxnDate:     "Дата транзакции",
			},
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
