package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rpggio/llmatic/internal/pricing"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding the store and config file.
const DirName = ".llmatic"

// Config defines llmatic configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Eval      EvalConfig      `yaml:"eval"`
	Pricing   pricing.Table   `yaml:"pricing"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Token, when set, is required as a bearer token on HTTP requests.
	Token string `yaml:"token"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// EvalConfig controls evaluation behavior of the client library.
type EvalConfig struct {
	DevMode bool `yaml:"dev_mode"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: defaultPath("llmatic.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// The file is LLMATIC_CONFIG_PATH when set, else ~/.llmatic/config.yaml if it exists.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("LLMATIC_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	} else if path := defaultPath("config.yaml"); path != "" {
		err := loadFromFile(path, &cfg)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if host := os.Getenv("LLMATIC_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LLMATIC_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLMATIC_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if token := os.Getenv("LLMATIC_SERVER_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
	if mode := os.Getenv("LLMATIC_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("LLMATIC_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LLMATIC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("LLMATIC_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if devMode := os.Getenv("LLMATIC_DEV_MODE"); devMode != "" {
		enabled, err := strconv.ParseBool(devMode)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLMATIC_DEV_MODE: %w", err)
		}
		cfg.Eval.DevMode = enabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that cannot be fixed up silently.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.DB.Path == "" {
		return errors.New("db path is required")
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}

// PricingTable returns the built-in prices with configured overrides applied.
func (c Config) PricingTable() pricing.Table {
	return pricing.DefaultTable().Merge(c.Pricing)
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return name
	}
	return filepath.Join(home, DirName, name)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
