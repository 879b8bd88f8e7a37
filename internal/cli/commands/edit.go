package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/internal/tui"
)

// EditOptions holds options for the edit command.
type EditOptions struct {
	ExportPath string
}

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a table in the terminal",
		Long: `Open the full-screen table editor.

Without a file the editor starts from a small sample table. CSV and XLSX
files are loaded by extension. Press ? inside the editor for key bindings.`,
		Example: `  # Edit the sample table
  tablemgr edit

  # Edit a CSV file and export edits to out.csv
  tablemgr edit people.csv --export out.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, optionalArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ExportPath, "export", dataio.DefaultCSVName, "File written by the export key")

	return cmd
}

func runEdit(cmd *cobra.Command, path string, opts *EditOptions) error {
	cc, cleanup := NewCommandContext(cmd)
	defer cleanup()

	store, err := cc.OpenTable(cmd, path)
	if err != nil {
		return err
	}

	m := tui.New(store, tui.Options{
		ExportPath: opts.ExportPath,
		Logger:     cc.Logger,
	})
	return tui.Run(cmd.Context(), m)
}
