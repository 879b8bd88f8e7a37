package config

import (
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// darkBackground reports whether the terminal has a dark background.
// Replaced in tests.
var darkBackground = termenv.HasDarkBackground

// ResolveTheme maps a configured theme setting to a theme mode. "auto"
// asks the terminal for its background colour. Unknown settings are light.
func ResolveTheme(setting string) table.ThemeMode {
	if setting == ThemeAuto {
		if darkBackground() {
			return table.ThemeDark
		}
		return table.ThemeLight
	}
	if mode, ok := table.ParseThemeMode(setting); ok {
		return mode
	}
	return table.ThemeLight
}
