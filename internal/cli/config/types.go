// Package config provides configuration management for the tablemgr CLI.
package config

// ServeConfig holds configuration for the local web editor.
type ServeConfig struct {
	Addr          string `koanf:"addr"`
	SessionSecret string `koanf:"session_secret"`
	Watch         bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	PrefsPath    string      `koanf:"prefs_path"`
	Theme        string      `koanf:"theme"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	LogLevel     string      `koanf:"log_level"`
	Serve        ServeConfig `koanf:"serve"`
}

// Default configuration values.
const (
	DefaultPrefsFile = "~/.tablemgr/prefs.db"
	DefaultTheme     = "light"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "info"
	DefaultServeAddr = "127.0.0.1:8765"
)

// Theme settings accepted in configuration.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)
