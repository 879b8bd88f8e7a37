// Package commands implements the tablemgr subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/cli/config"
	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/internal/prefs"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	// Prefs is nil when the preference database could not be opened.
	Prefs *prefs.Store
}

// NewCommandContext creates a CommandContext with the preference store opened.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func()) {
	cc := NewCommandContextWithoutPrefs(cmd)

	p, err := prefs.Open(cc.Cfg.PrefsPath, cc.Logger)
	if err != nil {
		// Editing still works; the theme just isn't remembered.
		cc.Logger.Warn("preferences unavailable", "path", cc.Cfg.PrefsPath, "error", err)
		return cc, func() {}
	}
	cc.Prefs = p
	return cc, func() { _ = p.Close() }
}

// NewCommandContextWithoutPrefs creates a CommandContext without a preference store.
// Useful for commands that never read or write the theme.
func NewCommandContextWithoutPrefs(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Theme resolves the starting theme: an explicit --theme flag wins, then
// the persisted preference, then the configured theme.
func (cc *CommandContext) Theme(cmd *cobra.Command) table.ThemeMode {
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		return config.ResolveTheme(cc.Cfg.Theme)
	}
	if cc.Prefs != nil {
		mode, err := cc.Prefs.Theme(cmd.Context())
		if err == nil {
			return mode
		}
		if !errors.Is(err, prefs.ErrNotFound) {
			cc.Logger.Warn("failed to read theme preference", "error", err)
		}
	}
	return config.ResolveTheme(cc.Cfg.Theme)
}

// OpenTable builds the store the interactive commands edit. An empty path
// starts from the sample rows.
func (cc *CommandContext) OpenTable(cmd *cobra.Command, path string) (*table.Store, error) {
	opts := table.Options{
		Theme:  cc.Theme(cmd),
		Logger: cc.Logger,
	}
	if cc.Prefs != nil {
		opts.Prefs = cc.Prefs
	}
	if path != "" {
		rows, err := dataio.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if rows == nil {
			rows = []table.Row{} // an empty file is an empty table, not the samples
		}
		opts.Rows = rows
		cc.Logger.Debug("loaded table", "path", path, "rows", len(rows))
	}
	return table.NewStore(opts), nil
}

// getConfig returns the current configuration, or the defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// optionalArg returns the first argument or "".
func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
