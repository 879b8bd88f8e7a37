package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

var errNoPrefs = errors.New("preferences database is unavailable")

// NewThemeCommand creates the theme command.
func NewThemeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or set the remembered theme",
		Long: `Without an argument, print the theme the editors start with.
With an argument, store it in the preferences database.`,
		Example: `  tablemgr theme
  tablemgr theme dark`,
		ValidArgs: []string{"light", "dark", "toggle"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, optionalArg(args))
		},
	}
}

func runTheme(cmd *cobra.Command, arg string) error {
	cc, cleanup := NewCommandContext(cmd)
	defer cleanup()

	mode := cc.Theme(cmd)
	if arg != "" {
		if cc.Prefs == nil {
			return errNoPrefs
		}
		if arg == "toggle" {
			mode = mode.Toggle()
		} else {
			mode, _ = table.ParseThemeMode(arg)
		}
		if err := cc.Prefs.SetTheme(mode); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
	}

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return cc.Renderer.JSON(map[string]string{"theme": string(mode)})
	case output.ModeYAML:
		return cc.Renderer.YAML(map[string]string{"theme": string(mode)})
	}
	cc.Renderer.KeyValue("Theme", output.ThemeLabel(mode))
	return nil
}
