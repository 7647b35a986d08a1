// Package config handles configuration loading and persistence for br.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultGatewayURL    = "http://127.0.0.1:8787"
	DefaultAgent         = "CECE"
	DefaultLogLevel      = "warn"
	DefaultWatchInterval = 2

	configFileName  = "config.toml"
	historyFileName = "history.db"
)

// Environment variables that override config file values
const (
	EnvHome       = "BLACKROAD_HOME"
	EnvGatewayURL = "BLACKROAD_GATEWAY_URL"
	EnvAgent      = "BLACKROAD_AGENT"
	EnvLogLevel   = "BLACKROAD_LOG_LEVEL"
)

// Config represents the user configuration
type Config struct {
	GatewayURL   string `toml:"gateway_url"`
	DefaultAgent string `toml:"default_agent"`
	LogLevel     string `toml:"log_level"`
	// Markdown renders successful agent replies through glamour.
	Markdown      bool   `toml:"markdown"`
	MarkdownStyle string `toml:"markdown_style,omitempty"` // "dark", "light", "notty", "auto" or a JSON theme path
	// CopyToClipboard copies every successful reply to the system clipboard.
	CopyToClipboard bool `toml:"copy_to_clipboard"`
	// History records shell exchanges in the local transcript database.
	History       bool `toml:"history"`
	WatchInterval int  `toml:"watch_interval"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		GatewayURL:      DefaultGatewayURL,
		DefaultAgent:    DefaultAgent,
		LogLevel:        DefaultLogLevel,
		Markdown:        false,
		MarkdownStyle:   "dark",
		CopyToClipboard: false,
		History:         false,
		WatchInterval:   DefaultWatchInterval,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".blackroad"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// GetHistoryPath returns the path to the transcript database
func GetHistoryPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, historyFileName), nil
}

// GetMemoryDir returns the agent memory directory shown by `br status`
func GetMemoryDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "memory"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return normalize(cfg), nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(normalize(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temp file first so a crash never leaves a half-written config
	configPath := filepath.Join(configDir, configFileName)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the environment.
// Existing variables are never overridden and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides on top of cfg
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvGatewayURL)); v != "" {
		cfg.GatewayURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAgent)); v != "" {
		cfg.DefaultAgent = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// Load reads the config file and applies environment overrides.
// A broken config file is reported but defaults are still returned.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	return ApplyEnv(cfg), err
}

func normalize(cfg Config) Config {
	cfg.GatewayURL = strings.TrimSpace(cfg.GatewayURL)
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	cfg.DefaultAgent = strings.TrimSpace(cfg.DefaultAgent)
	if cfg.DefaultAgent == "" {
		cfg.DefaultAgent = DefaultAgent
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.MarkdownStyle == "" {
		cfg.MarkdownStyle = "dark"
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = DefaultWatchInterval
	}
	return cfg
}

// setters maps config keys accepted by `br config set` to their parsers
var setters = map[string]func(*Config, string) error{
	"gateway_url": func(c *Config, v string) error {
		c.GatewayURL = v
		return nil
	},
	"default_agent": func(c *Config, v string) error {
		c.DefaultAgent = v
		return nil
	},
	"log_level": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log level %q (debug, info, warn, error)", v)
	},
	"markdown": func(c *Config, v string) error {
		return parseBool(v, &c.Markdown)
	},
	"markdown_style": func(c *Config, v string) error {
		c.MarkdownStyle = v
		return nil
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		return parseBool(v, &c.CopyToClipboard)
	},
	"history": func(c *Config, v string) error {
		return parseBool(v, &c.History)
	},
	"watch_interval": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("watch_interval must be a positive integer, got %q", v)
		}
		c.WatchInterval = n
		return nil
	},
}

func parseBool(v string, dst *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	*dst = b
	return nil
}

// Set updates a single key on cfg
func Set(cfg *Config, key, value string) error {
	setter, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return setter(cfg, strings.TrimSpace(value))
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
