package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a table between CSV and XLSX",
		Long: `Import a table file and export it in the format of the output file's
extension. Rows are normalised the same way an import into the editor
normalises them.`,
		Example: `  tablemgr convert people.csv people.xlsx
  tablemgr convert people.xlsx table_data.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1])
		},
	}
}

func runConvert(cmd *cobra.Command, in, out string) error {
	cc := NewCommandContextWithoutPrefs(cmd)

	// Fail on a bad output extension before reading anything
	if _, err := dataio.FormatFor(out); err != nil {
		return err
	}
	rows, err := dataio.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	if err := dataio.WriteFile(out, rows, table.DefaultColumns()); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	cc.Logger.Debug("converted table", "in", in, "out", out, "rows", len(rows))
	cc.Renderer.Success(fmt.Sprintf("Converted %d row(s) from %s to %s", len(rows), in, out))
	return nil
}
