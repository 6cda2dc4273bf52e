package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDBFileName = "clips.db"
	DefaultLogLevel   = "warn"

	configDirEnvKey = "CLIPVAULT_CONFIG_DIR"
)

// Config defines runtime configuration for clipvault.
type Config struct {
	// DBPath is the default database opened when no alias or path is given.
	DBPath string `toml:"db_path"`
	// Databases maps a short alias to a database file path.
	Databases map[string]string `toml:"databases"`
	LogLevel  string            `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		DBPath:    "",
		Databases: map[string]string{},
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads the global config file if present, layered over defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	if _, err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Databases == nil {
		cfg.Databases = map[string]string{}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	return &cfg, nil
}

// Aliases returns the configured alias names in sorted order.
func (c *Config) Aliases() []string {
	names := make([]string, 0, len(c.Databases))
	for name := range c.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GlobalPath returns the path to the config file, honoring the
// CLIPVAULT_CONFIG_DIR override.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, "clipvault.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipvault.toml"), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDBFileName
	}
	return filepath.Join(home, ".clipvault", DefaultDBFileName)
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}
