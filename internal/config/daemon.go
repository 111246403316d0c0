// Package config handles daemon configuration file loading and parsing.
//
// The config file covers process-level concerns only. Runtime-tunable
// behavior such as the source allow list and overlay appearance lives in the
// settings store, where the CLI can change it while the daemon runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings like "5s", "1m", "1h30m", or from integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for minipopd.
// Loaded from ~/.config/minipop/minipopd.toml
type DaemonConfig struct {
	Logging  LoggingConfig  `toml:"logging"`
	Ingress  IngressConfig  `toml:"ingress"`
	Settings SettingsConfig `toml:"settings"`
	Display  DisplayConfig  `toml:"display"`
	Notices  NoticesConfig  `toml:"notices"`
}

// LoggingConfig contains log output settings. When File is empty, logs go
// to stderr; otherwise they go to a size-rotated file.
type LoggingConfig struct {
	Level      string `toml:"level"` // "debug", "info", "warn", "error"
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// IngressConfig toggles the event sources the daemon listens on.
type IngressConfig struct {
	DBus  bool `toml:"dbus"`  // eavesdrop on the session notification bus
	Stdin bool `toml:"stdin"` // accept line-delimited JSON events on stdin
}

// SettingsConfig locates the settings store.
type SettingsConfig struct {
	Dir string `toml:"dir"` // empty = <user config dir>/minipop/settings
}

// DisplayConfig contains rendering-surface settings.
type DisplayConfig struct {
	Columns   int `toml:"columns"`    // overlay width in terminal columns
	ScrollFPS int `toml:"scroll_fps"` // marquee animation frame rate
}

// NoticesConfig contains failure-notice settings.
type NoticesConfig struct {
	MinInterval Duration `toml:"min_interval"` // per-kind rate limit
}

// ValidLogLevels returns all accepted logging levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Ingress: IngressConfig{
			DBus:  true,
			Stdin: false,
		},
		Settings: SettingsConfig{
			Dir: "",
		},
		Display: DisplayConfig{
			Columns:   60,
			ScrollFPS: 30,
		},
		Notices: NoticesConfig{
			MinInterval: Duration(30 * time.Second),
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "minipop", "minipopd.toml"), nil
}

// SettingsDir resolves the settings store directory, applying the default
// when the config leaves it empty.
func (c *DaemonConfig) SettingsDir() (string, error) {
	if c.Settings.Dir != "" {
		return c.Settings.Dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "minipop", "settings"), nil
}

// LoadDaemonConfig loads the daemon configuration from disk.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadDaemonConfigFrom(path)
}

// LoadDaemonConfigFrom loads the daemon configuration from an explicit path.
func LoadDaemonConfigFrom(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to disk.
func SaveDaemonConfig(config *DaemonConfig) error {
	path, err := DaemonConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels() {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level %q, must be one of: %v", c.Logging.Level, ValidLogLevels())
	}

	if c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("max_size_mb must be at least 1, got %d", c.Logging.MaxSizeMB)
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative, got %d", c.Logging.MaxBackups)
	}
	if c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("max_age_days must not be negative, got %d", c.Logging.MaxAgeDays)
	}

	if !c.Ingress.DBus && !c.Ingress.Stdin {
		return fmt.Errorf("at least one ingress source must be enabled")
	}

	if c.Display.Columns < 20 || c.Display.Columns > 500 {
		return fmt.Errorf("columns must be between 20 and 500, got %d", c.Display.Columns)
	}
	if c.Display.ScrollFPS < 1 || c.Display.ScrollFPS > 120 {
		return fmt.Errorf("scroll_fps must be between 1 and 120, got %d", c.Display.ScrollFPS)
	}

	if c.Notices.MinInterval.Duration() < 0 {
		return fmt.Errorf("min_interval must not be negative")
	}

	return nil
}
