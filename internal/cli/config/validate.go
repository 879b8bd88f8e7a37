package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var (
	validThemes    = []string{ThemeLight, ThemeDark, ThemeAuto}
	validOutputs   = []string{"auto", "text", "markdown", "json", "yaml", "csv"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if c.PrefsPath == "" {
		return fmt.Errorf("prefs_path is required")
	}
	if !slices.Contains(validThemes, c.Theme) {
		return fmt.Errorf("invalid theme %q: expected one of %s", c.Theme, strings.Join(validThemes, ", "))
	}
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output %q: expected one of %s", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: expected one of %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr is required")
	}
	return nil
}

// Level returns the slog level for the configuration. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
