// Package config provides configuration management for the trade journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Display DisplayConfig `mapstructure:"display"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Rates   RatesConfig   `mapstructure:"rates"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
}

// DisplayConfig holds PnL display configuration.
type DisplayConfig struct {
	Mode     string `mapstructure:"mode"`     // "usd", "percent", "rr"
	Currency string `mapstructure:"currency"` // USD, CZK, EUR
	ShowSign bool   `mapstructure:"show_sign"`
}

// StatsConfig holds statistics configuration.
type StatsConfig struct {
	ProfitFactorCap float64 `mapstructure:"profit_factor_cap"`
	InitialBalance  float64 `mapstructure:"initial_balance"`
}

// RatesConfig holds exchange-rate provider configuration.
type RatesConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// Optional .env for local overrides
	_ = godotenv.Load()

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = filepath.Join(configDir, "journal.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Set defaults
	v.SetDefault("display.mode", "usd")
	v.SetDefault("display.currency", "USD")
	v.SetDefault("display.show_sign", true)
	v.SetDefault("stats.profit_factor_cap", 9.99)
	v.SetDefault("stats.initial_balance", 10000.0)
	v.SetDefault("rates.endpoint", "https://api.frankfurter.app")
	v.SetDefault("rates.ttl_hours", 6)
	v.SetDefault("storage.db_path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04:05")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEJOURNAL_DISPLAY_MODE"); v != "" {
		cfg.Display.Mode = v
	}
	if v := os.Getenv("TRADEJOURNAL_CURRENCY"); v != "" {
		cfg.Display.Currency = v
	}
	if v := os.Getenv("TRADEJOURNAL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TRADEJOURNAL_RATES_ENDPOINT"); v != "" {
		cfg.Rates.Endpoint = v
	}
	if v := os.Getenv("TRADEJOURNAL_INITIAL_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Stats.InitialBalance = f
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Display.Mode {
	case "", "usd", "percent", "rr":
	default:
		return fmt.Errorf("invalid display mode: %s (must be 'usd', 'percent' or 'rr')", c.Display.Mode)
	}

	switch c.Display.Currency {
	case "", "USD", "CZK", "EUR":
	default:
		return fmt.Errorf("unsupported currency: %s (must be USD, CZK or EUR)", c.Display.Currency)
	}

	if c.Stats.ProfitFactorCap <= 0 {
		return fmt.Errorf("profit_factor_cap must be positive")
	}
	if c.Stats.InitialBalance < 0 {
		return fmt.Errorf("initial_balance must be non-negative")
	}
	if c.Rates.TTLHours <= 0 {
		return fmt.Errorf("rates ttl_hours must be positive")
	}

	return nil
}
