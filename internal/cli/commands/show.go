package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Search string
	Page   int
	Hide   []string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print one page of a table",
		Long: `Print one page of a CSV or XLSX table in the selected output format.

The page is computed the same way the editors compute it: the search is a
case-insensitive match over visible columns, and pages hold 10 rows. A page
past the end shows the last page.`,
		Example: `  tablemgr show people.csv
  tablemgr show people.csv --search dev --page 2
  tablemgr show people.xlsx --hide email -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only show rows matching this text")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page to show (1-based)")
	cmd.Flags().StringSliceVar(&opts.Hide, "hide", nil, "Column ids to hide")

	return cmd
}

func runShow(cmd *cobra.Command, path string, opts *ShowOptions) error {
	if opts.Page < 1 {
		return fmt.Errorf("invalid page %d: pages start at 1", opts.Page)
	}

	cc, cleanup := NewCommandContext(cmd)
	defer cleanup()

	store, err := cc.OpenTable(cmd, path)
	if err != nil {
		return err
	}

	cols := store.Snapshot().Columns
	for _, id := range opts.Hide {
		if !slices.ContainsFunc(cols, func(c table.Column) bool { return c.ID == id }) {
			return fmt.Errorf("unknown column %q", id)
		}
		store.ToggleColumnVisibility(id)
	}
	store.SetSearch(opts.Search)

	v := table.Derive(store.Snapshot(), opts.Page-1)
	return cc.Renderer.RenderView(v)
}
