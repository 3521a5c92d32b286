package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Scan     ScanOptions    `yaml:"scan"`
	Scorer   ScorerOptions  `yaml:"scorer"`
	Trash    TrashConfig    `yaml:"trash"`
	Deletion DeletionConfig `yaml:"deletion"`
	History  HistoryConfig  `yaml:"history"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// ScanOptions is the user-chosen scan configuration
type ScanOptions struct {
	Directories   []string        `yaml:"directories"`
	IncludeFiles  bool            `yaml:"include_files"`
	Age           AgeFilter       `yaml:"age"`
	FileSize      EntrySizeFilter `yaml:"file_size"`
	DirectorySize EntrySizeFilter `yaml:"directory_size"`
	Workers       int             `yaml:"workers"` // 0 = number of CPUs
}

// AgeFilter selects entries by last-modified and last-accessed time.
// An explicit *Before cutoff wins over the *Months value.
type AgeFilter struct {
	UseModified    bool       `yaml:"use_modified"`
	ModifiedBefore *time.Time `yaml:"modified_before,omitempty"`
	ModifiedMonths int        `yaml:"modified_months"`
	UseAccessed    bool       `yaml:"use_accessed"`
	AccessedBefore *time.Time `yaml:"accessed_before,omitempty"`
	AccessedMonths int        `yaml:"accessed_months"`
}

// EntrySizeFilter keeps entries larger than a threshold given in MB
type EntrySizeFilter struct {
	Enabled     bool    `yaml:"enabled"`
	ThresholdMB float64 `yaml:"threshold_mb"`
}

// ScorerOptions weights the age and size scores and sets how much of the
// ranked list is proposed
type ScorerOptions struct {
	WeightAge     float64 `yaml:"weight_age"`
	WeightSize    float64 `yaml:"weight_size"`
	TopPercentage float64 `yaml:"top_percentage"`
}

// TrashConfig controls the external trash helpers on platforms without a
// native trash API. Commands are tried in order; the first success wins.
type TrashConfig struct {
	Commands []string      `yaml:"commands"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DeletionConfig controls retries of transient permanent-delete failures
type DeletionConfig struct {
	RetryDelays []time.Duration `yaml:"retry_delays"`
}

// HistoryConfig locates the deletion history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig controls the webhook posted after a cleanup finishes
type NotifyConfig struct {
	OnSuccess bool          `yaml:"on_success"`
	OnFailure bool          `yaml:"on_failure"`
	Webhook   WebhookConfig `yaml:"webhook"`
}

// WebhookConfig holds webhook settings. An empty URL disables it.
type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
	Timeout time.Duration     `yaml:"timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ModifiedCutoff resolves the last-modified cutoff relative to now.
// ok is false when no cutoff can be derived.
func (a AgeFilter) ModifiedCutoff(now time.Time) (time.Time, bool) {
	return resolveCutoff(a.ModifiedBefore, a.ModifiedMonths, now)
}

// AccessedCutoff resolves the last-accessed cutoff relative to now.
func (a AgeFilter) AccessedCutoff(now time.Time) (time.Time, bool) {
	return resolveCutoff(a.AccessedBefore, a.AccessedMonths, now)
}

func resolveCutoff(explicit *time.Time, months int, now time.Time) (time.Time, bool) {
	if explicit != nil && !explicit.IsZero() {
		return *explicit, true
	}
	if months > 0 {
		return now.AddDate(0, -months, 0), true
	}
	return time.Time{}, false
}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so a partial file only overrides what it names
	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.Age.ModifiedMonths < 0 {
		return fmt.Errorf("modified_months must be >= 0")
	}
	if c.Scan.Age.AccessedMonths < 0 {
		return fmt.Errorf("accessed_months must be >= 0")
	}
	if c.Scan.FileSize.ThresholdMB < 0 {
		return fmt.Errorf("file_size threshold must be >= 0")
	}
	if c.Scan.DirectorySize.ThresholdMB < 0 {
		return fmt.Errorf("directory_size threshold must be >= 0")
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	for _, dir := range c.Scan.Directories {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("scan directory must not be empty")
		}
	}

	if err := c.Scorer.Validate(); err != nil {
		return err
	}

	if c.Trash.Timeout < 0 {
		return fmt.Errorf("trash timeout must be >= 0")
	}
	for _, d := range c.Deletion.RetryDelays {
		if d < 0 {
			return fmt.Errorf("retry delays must be >= 0")
		}
	}
	if c.Notify.Webhook.Timeout < 0 {
		return fmt.Errorf("webhook timeout must be >= 0")
	}

	return nil
}

// Validate checks the scorer weights and percentage
func (s ScorerOptions) Validate() error {
	if s.WeightAge < 0 || s.WeightSize < 0 {
		return fmt.Errorf("scorer weights must be >= 0")
	}
	if s.TopPercentage < 0 || s.TopPercentage > 1 {
		return fmt.Errorf("top_percentage must be within [0, 1]")
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GetConfigDir returns the default configuration directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tidytree"), nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
