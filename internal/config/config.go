// Package config loads and validates run configuration for dicomcrawl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents dicomcrawl configuration options
type Config struct {
	// MaxConcurrency is the number of directories crawled in parallel
	// (0 = one worker per directory)
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written ("" disables file logging)
	LogDir string `yaml:"log_dir"`

	// OutputName is the result table filename written inside each crawled directory
	OutputName string `yaml:"output_name"`

	// FollowSymlinks controls whether directory symlinks are followed during traversal
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// SortByAcquisitionTime orders output rows by acquisition time (absent last)
	// instead of discovery order
	SortByAcquisitionTime bool `yaml:"sort_by_acquisition_time"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency:        1, // Sequential
		LogLevel:              "info",
		LogDir:                "",
		OutputName:            "modal_data.csv",
		FollowSymlinks:        true,
		SortByAcquisitionTime: false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields distinguish "absent from the file" from an explicit
	// zero value, so false booleans in the file still take effect.
	type yamlConfig struct {
		MaxConcurrency        *int    `yaml:"max_concurrency"`
		LogLevel              *string `yaml:"log_level"`
		LogDir                *string `yaml:"log_dir"`
		OutputName            *string `yaml:"output_name"`
		FollowSymlinks        *bool   `yaml:"follow_symlinks"`
		SortByAcquisitionTime *bool   `yaml:"sort_by_acquisition_time"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxConcurrency != nil {
		cfg.MaxConcurrency = *yamlCfg.MaxConcurrency
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}
	if yamlCfg.OutputName != nil {
		cfg.OutputName = *yamlCfg.OutputName
	}
	if yamlCfg.FollowSymlinks != nil {
		cfg.FollowSymlinks = *yamlCfg.FollowSymlinks
	}
	if yamlCfg.SortByAcquisitionTime != nil {
		cfg.SortByAcquisitionTime = *yamlCfg.SortByAcquisitionTime
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .dicomcrawl/config.yaml in the
// specified directory. Missing directory or file yields defaults.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".dicomcrawl", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, so CLI flags take
// precedence over config file settings.
func (c *Config) MergeWithFlags(maxConcurrency *int, logLevel, logDir, outputName *string, followSymlinks, sortByAcquisitionTime *bool) {
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if outputName != nil {
		c.OutputName = *outputName
	}
	if followSymlinks != nil {
		c.FollowSymlinks = *followSymlinks
	}
	if sortByAcquisitionTime != nil {
		c.SortByAcquisitionTime = *sortByAcquisitionTime
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.OutputName == "" {
		return fmt.Errorf("output_name cannot be empty")
	}
	if strings.ContainsRune(c.OutputName, os.PathSeparator) {
		return fmt.Errorf("output_name %q must be a bare filename, not a path", c.OutputName)
	}

	return nil
}
