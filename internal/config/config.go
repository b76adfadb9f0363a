// Package config loads gk settings with Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LocalFile is the project-level config file name.
const LocalFile = ".gk.yaml"

// Config holds the settings every command reads.
type Config struct {
	FeaturesDir string `mapstructure:"features_dir"`
	Database    string `mapstructure:"database"`
	StepsFile   string `mapstructure:"steps_file"`
	Tags        string `mapstructure:"tags"`
	Workers     int    `mapstructure:"workers"`

	path string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("features_dir", "features")
	v.SetDefault("database", filepath.Join("features", "gk.db"))
	v.SetDefault("steps_file", "steps.yaml")
	v.SetDefault("tags", "")
	v.SetDefault("workers", 4)
}

// configDir returns the user-level configuration directory.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gk"), nil
}

// Load reads the configuration. Files are searched in this order:
// 1. cfgPath, when not empty (--config flag)
// 2. .gk.yaml in the current directory
// 3. ~/.config/gk/config.yaml
//
// A missing file is fine except for an explicit cfgPath. GK_* environment
// variables override file values.
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GK")
	v.AutomaticEnv()

	switch {
	case cfgPath != "":
		if !fileExists(cfgPath) {
			return nil, fmt.Errorf("config file %s not found", cfgPath)
		}
		v.SetConfigFile(cfgPath)
	case fileExists(LocalFile):
		v.SetConfigFile(LocalFile)
	default:
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.path = v.ConfigFileUsed()

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.FeaturesDir == "" {
		return nil, fmt.Errorf("features_dir must not be empty")
	}
	return cfg, nil
}

// Path returns the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
