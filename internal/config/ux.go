package config

import "time"

// UIConfig holds terminal UI configuration.
type UIConfig struct {
	// DarkMode forces the dark theme; otherwise the terminal is probed.
	DarkMode bool `yaml:"dark_mode"`

	// SnackbarTimeout is how long the error snackbar stays up, e.g. "4s".
	SnackbarTimeout string `yaml:"snackbar_timeout"`
}

// GetSnackbarTimeout returns the snackbar timeout as a duration.
func (c UIConfig) GetSnackbarTimeout() time.Duration {
	d, err := time.ParseDuration(c.SnackbarTimeout)
	if err != nil || d <= 0 {
		return 4 * time.Second
	}
	return d
}
