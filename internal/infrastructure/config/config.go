// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	tolerance := cfg.Matching.Tolerance()
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds matcher and suggestion tuning
type MatchingConfig struct {
	// AmountTolerance is a decimal string ("0.01") so cent values survive
	// the YAML round trip exactly.
	AmountTolerance   string `yaml:"amount_tolerance"`
	DateRangeDays     int    `yaml:"date_range_days"`
	EnableTripleSplit bool   `yaml:"enable_triple_splits"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Tolerance parses the configured amount tolerance, falling back to one
// cent when the value is empty or malformed.
func (m MatchingConfig) Tolerance() decimal.Decimal {
	if m.AmountTolerance != "" {
		if d, err := decimal.NewFromString(m.AmountTolerance); err == nil && d.IsPositive() {
			return d
		}
	}
	return decimal.New(1, -2)
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Matching: MatchingConfig{
			AmountTolerance:   getEnv("RECON_AMOUNT_TOLERANCE", "0.01"),
			DateRangeDays:     getEnvInt("RECON_DATE_RANGE_DAYS", 5),
			EnableTripleSplit: os.Getenv("RECON_ENABLE_TRIPLE_SPLITS") == "true",
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECON_DB_PATH", "bankrecon.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Matching.DateRangeDays == 0 {
		c.Matching.DateRangeDays = 5
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "bankrecon.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
