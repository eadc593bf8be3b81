// Package config loads the playground configuration from YAML, with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDir is the per-workspace state directory.
const DefaultDir = ".playground"

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir, "config.yaml")
}

// Config holds all playground configuration.
type Config struct {
	// Simulated users fetch
	Fetch FetchConfig `yaml:"fetch"`

	// Effect delivery
	Effects EffectsConfig `yaml:"effects"`

	// Event journal
	Journal JournalConfig `yaml:"journal"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// FetchConfig configures the fake users source.
type FetchConfig struct {
	Delay string `yaml:"delay"` // e.g. "5s"
	Seed  uint64 `yaml:"seed"`  // 0 = random
}

// EffectsConfig configures how effects reach the view.
type EffectsConfig struct {
	Policy string `yaml:"policy"` // queue, rendezvous
	Buffer int    `yaml:"buffer"` // per-subscriber queue size for "queue"
}

// JournalConfig configures the SQLite event journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Delay: "5s",
		},
		Effects: EffectsConfig{
			Policy: "queue",
			Buffer: 64,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultDir, "journal.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(DefaultDir, "logs", "playground.log"),
		},
		UI: UIConfig{
			SnackbarTimeout: "4s",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PLAYGROUND_FETCH_DELAY"); v != "" {
		c.Fetch.Delay = v
	}
	if v := os.Getenv("PLAYGROUND_EFFECT_POLICY"); v != "" {
		c.Effects.Policy = v
	}
	if v := os.Getenv("PLAYGROUND_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv("PLAYGROUND_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PLAYGROUND_DARK_MODE"); v != "" {
		if dark, err := strconv.ParseBool(v); err == nil {
			c.UI.DarkMode = dark
		}
	}
}

// GetFetchDelay returns the fetch delay as a duration.
func (c *Config) GetFetchDelay() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Delay)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// ValidEffectPolicies lists the supported effect policies.
var ValidEffectPolicies = []string{"queue", "rendezvous"}

// ValidLogLevels lists the supported log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if d, err := time.ParseDuration(c.Fetch.Delay); err != nil || d < 0 {
		return fmt.Errorf("invalid fetch delay: %q", c.Fetch.Delay)
	}
	if !contains(ValidEffectPolicies, c.Effects.Policy) {
		return fmt.Errorf("invalid effect policy: %s (valid: %v)", c.Effects.Policy, ValidEffectPolicies)
	}
	if c.Effects.Buffer < 0 {
		return fmt.Errorf("effect buffer must not be negative, got %d", c.Effects.Buffer)
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal enabled but no path configured")
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if _, err := time.ParseDuration(c.UI.SnackbarTimeout); err != nil {
		return fmt.Errorf("invalid snackbar timeout: %q", c.UI.SnackbarTimeout)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
