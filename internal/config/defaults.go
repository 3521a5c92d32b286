package config

import "time"

// Default scorer weights and selection share
const (
	DefaultWeightAge     = 0.5
	DefaultWeightSize    = 0.5
	DefaultTopPercentage = 0.4
)

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Scan: ScanOptions{
			Directories:  []string{},
			IncludeFiles: true,
			Age: AgeFilter{
				UseModified:    true,
				ModifiedMonths: 6,
				UseAccessed:    false,
				AccessedMonths: 0,
			},
			FileSize: EntrySizeFilter{
				Enabled:     false,
				ThresholdMB: 100,
			},
			DirectorySize: EntrySizeFilter{
				Enabled:     false,
				ThresholdMB: 500,
			},
			Workers: 0,
		},
		Scorer: DefaultScorerOptions(),
		Trash: TrashConfig{
			// Empty means the platform's default helper order
			Commands: []string{},
			Timeout:  30 * time.Second,
		},
		Deletion: DeletionConfig{
			RetryDelays: []time.Duration{
				100 * time.Millisecond,
				500 * time.Millisecond,
				2 * time.Second,
			},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.config/tidytree/history.db",
		},
		Notify: NotifyConfig{
			OnSuccess: true,
			OnFailure: true,
			Webhook: WebhookConfig{
				Method:  "POST",
				Timeout: 30 * time.Second,
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// DefaultScorerOptions returns the default weighting
func DefaultScorerOptions() ScorerOptions {
	return ScorerOptions{
		WeightAge:     DefaultWeightAge,
		WeightSize:    DefaultWeightSize,
		TopPercentage: DefaultTopPercentage,
	}
}

// GetExampleConfig returns an example configuration with comments
func GetExampleConfig() string {
	return `# tidytree configuration
# Location: ~/.config/tidytree/config.yaml

scan:
  # Directories scanned when none are given on the command line
  directories:
    - "~/Downloads"
  include_files: true    # false keeps only directories
  workers: 0             # 0 = one worker per CPU

  # Age criteria. An explicit *_before timestamp wins over *_months.
  age:
    use_modified: true
    modified_months: 6
    # modified_before: 2024-01-01T00:00:00Z
    use_accessed: false
    accessed_months: 0

  # Size criteria, thresholds in MB
  file_size:
    enabled: false
    threshold_mb: 100
  directory_size:
    enabled: false
    threshold_mb: 500

# Ranking of cleanup candidates
scorer:
  weight_age: 0.5
  weight_size: 0.5
  top_percentage: 0.4    # share of ranked entries proposed for deletion

# Trash helpers for Linux/macOS, tried in order (empty = platform default)
# linux: gio, kioclient5, trash-put, freedesktop
# macOS: osascript, trash
trash:
  commands: []
  timeout: 30s

# Retry delays for files that are temporarily busy
deletion:
  retry_delays: [100ms, 500ms, 2s]

history:
  enabled: true
  path: "~/.config/tidytree/history.db"

# Webhook posted after "tidytree clean" finishes (empty url = off)
notify:
  on_success: true
  on_failure: true
  webhook:
    url: ""
    method: POST
    headers: {}
    timeout: 30s

log:
  level: info            # debug, info, warn, error
  file: ""               # empty = stderr
`
}
