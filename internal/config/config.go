package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the ~/.lazycopy/config.toml file.
type Config struct {
	PoolCapacity int    `toml:"pool_capacity,omitempty" json:"pool_capacity"`
	ArenaBytes   int    `toml:"arena_bytes,omitempty" json:"arena_bytes"`
	LogLevel     string `toml:"log_level,omitempty" json:"log_level"`
}

// configDirOverride is set by the --config-dir flag or LAZYCOPY_HOME env var.
var configDirOverride string

// SetConfigDir allows the CLI to pass in the --config-dir / LAZYCOPY_HOME value.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Home returns the config directory path.
// Precedence: --config-dir flag / SetConfigDir > LAZYCOPY_HOME env > ~/.lazycopy
func Home() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	if v := os.Getenv("LAZYCOPY_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lazycopy")
	}
	return filepath.Join(home, ".lazycopy")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// EnsureDir creates the home directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Home(), 0o755)
}

// Load reads config.toml and returns a Config struct.
// If the file does not exist, it returns a zero-value Config (defaults).
func Load() (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	return cfg, nil
}

// Save writes the Config struct back to config.toml.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o644)
}

// validKeys lists the dot-free keys that can be used with Get/Set.
var validKeys = map[string]bool{
	"pool_capacity": true,
	"arena_bytes":   true,
	"log_level":     true,
}

// Get retrieves a single config value by key.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return getField(cfg, key)
}

// Set sets a single config value by key.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := setField(cfg, key, value); err != nil {
		return err
	}
	return Save(cfg)
}

func getField(cfg *Config, key string) (string, error) {
	switch key {
	case "pool_capacity":
		return strconv.Itoa(cfg.PoolCapacity), nil
	case "arena_bytes":
		return strconv.Itoa(cfg.ArenaBytes), nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setField(cfg *Config, key, value string) error {
	switch key {
	case "pool_capacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("pool_capacity must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("pool_capacity must be positive, got %d", n)
		}
		cfg.PoolCapacity = n
	case "arena_bytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("arena_bytes must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("arena_bytes must be positive, got %d", n)
		}
		if page := lazycopy.PageSize(); n%page != 0 {
			return fmt.Errorf("arena_bytes must be a multiple of the host page size (%d), got %d", page, n)
		}
		cfg.ArenaBytes = n
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Validate checks an already-loaded Config against the same constraints
// Set enforces per-key, for the zero keys a file loaded straight off disk
// (bypassing Set) might not satisfy — e.g. a config.toml hand-edited before
// lazycopy ever carved up a page size on this host. A zero field is left
// alone: Load returns zero values for an absent config.toml and InitWithOptions
// substitutes its own defaults for zero, so zero is "unset", not "invalid".
func Validate(cfg *Config) error {
	if cfg.PoolCapacity < 0 {
		return fmt.Errorf("pool_capacity must not be negative, got %d", cfg.PoolCapacity)
	}
	if cfg.ArenaBytes < 0 {
		return fmt.Errorf("arena_bytes must not be negative, got %d", cfg.ArenaBytes)
	}
	if cfg.ArenaBytes > 0 {
		if page := lazycopy.PageSize(); cfg.ArenaBytes%page != 0 {
			return fmt.Errorf("arena_bytes must be a multiple of the host page size (%d), got %d", page, cfg.ArenaBytes)
		}
	}
	return nil
}

// PageCapacity reports how many pages arena_bytes affords, using dflt when
// the config leaves arena_bytes unset (0).
func PageCapacity(cfg *Config, dflt int) int {
	n := cfg.ArenaBytes
	if n <= 0 {
		n = dflt
	}
	return n / lazycopy.PageSize()
}
