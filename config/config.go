package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Session SessionConfig `json:"session" yaml:"session"`
}

// ServerConfig contains the HTTP listener parameters.
type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	AllowOrigin string `json:"allow_origin" yaml:"allow_origin"`
}

// StoreConfig selects and parameterizes the account store. The bin
// credentials can also come from the environment (BIN_ID / BIN_API_KEY),
// which wins over the file so secrets stay out of config files.
type StoreConfig struct {
	Type   string `json:"type" yaml:"type" ignored:"true"` // "sqlite", "bin" or "memory"
	Path   string `json:"path,omitempty" yaml:"path,omitempty" ignored:"true"`
	BinURL string `json:"bin_url,omitempty" yaml:"bin_url,omitempty" envconfig:"BIN_URL"`
	BinID  string `json:"bin_id,omitempty" yaml:"bin_id,omitempty" envconfig:"BIN_ID"`
	BinKey string `json:"-" yaml:"-" envconfig:"BIN_API_KEY"`
}

// JournalConfig contains trade journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "sqlite" or "csv"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
}

// TradingConfig contains ledger parameters.
type TradingConfig struct {
	ContractSize    float64 `json:"contract_size" yaml:"contract_size"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// SessionConfig contains cookie session parameters.
type SessionConfig struct {
	Timeout string `json:"timeout" yaml:"timeout"` // e.g. "24h", "30m"
}

// ParseTimeout converts the timeout string to time.Duration.
func (sc SessionConfig) ParseTimeout() (time.Duration, error) {
	if sc.Timeout == "" {
		return 24 * time.Hour, nil
	}
	return time.ParseDuration(sc.Timeout)
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content), applies environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays store credentials from a .env file (if present) and
// the process environment.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load() // missing .env is fine

	if err := envconfig.Process("", &c.Store); err != nil {
		return fmt.Errorf("process environment: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for sqlite store")
		}
	case "bin":
		if c.Store.BinID == "" || c.Store.BinKey == "" {
			return fmt.Errorf("store.bin_id and BIN_API_KEY required for bin store")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'bin' or 'memory'")
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for csv journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'sqlite' or 'csv'")
	}
	if c.Trading.ContractSize <= 0 {
		return fmt.Errorf("trading.contract_size must be positive")
	}
	if c.Trading.StartingBalance <= 0 {
		return fmt.Errorf("trading.starting_balance must be positive")
	}
	if _, err := c.Session.ParseTimeout(); err != nil {
		return fmt.Errorf("session.timeout: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":5000",
			AllowOrigin: "*",
		},
		Store: StoreConfig{
			Type: "sqlite",
			Path: "./papertrade.db",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Trading: TradingConfig{
			ContractSize:    1000,
			StartingBalance: 10000,
		},
		Session: SessionConfig{
			Timeout: "24h",
		},
	}
}
