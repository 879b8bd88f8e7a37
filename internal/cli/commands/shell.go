package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/internal/shell"
)

// historyFile is kept next to the preference database.
const historyFile = "shell_history"

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell [file]",
		Short: "Edit a table from a line shell",
		Long: `Start an interactive shell over the table.

Each line is one command (show, search, page, edit, set, save, add, delete,
col, move, drag, theme, import, export). Type help for the full list.`,
		Example: `  tablemgr shell people.csv
  tablemgr shell -o markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, optionalArg(args))
		},
	}
	return cmd
}

func runShell(cmd *cobra.Command, path string) error {
	cc, cleanup := NewCommandContext(cmd)
	defer cleanup()

	store, err := cc.OpenTable(cmd, path)
	if err != nil {
		return err
	}

	// auto would pick markdown when piped; the shell is for people
	mode := output.Mode(cc.Cfg.OutputFormat)
	if mode == output.ModeAuto {
		mode = output.ModeText
	}
	in := shell.New(store, shell.Options{Mode: mode, Logger: cc.Logger})

	replCfg := shell.REPLConfig{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	if cc.Prefs != nil && cc.Prefs.Path() != ":memory:" {
		replCfg.HistoryFile = filepath.Join(filepath.Dir(cc.Prefs.Path()), historyFile)
	}
	return shell.RunREPL(cmd.Context(), in, replCfg)
}
