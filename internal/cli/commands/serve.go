package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tablemgr/internal/ui"
)

var errWatchWithoutFile = errors.New("--watch requires a file argument")

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Edit a table in the browser",
		Long: `Start a local web server with the table editor.

Every connected browser sees the same table and receives live updates
when it changes. Each browser keeps its own page.`,
		Example: `  # Serve the sample table on the default address
  tablemgr serve

  # Serve a CSV file and reload it when it changes on disk
  tablemgr serve people.csv --watch --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, optionalArg(args))
		},
	}

	// Read through the config loader as serve.addr and serve.watch
	cmd.Flags().String("addr", "", "Address to listen on (default: 127.0.0.1:8765)")
	cmd.Flags().Bool("watch", false, "Reload the file when it changes")

	return cmd
}

func runServe(cmd *cobra.Command, path string) error {
	cc, cleanup := NewCommandContext(cmd)
	defer cleanup()

	if cc.Cfg.Serve.Watch && path == "" {
		return errWatchWithoutFile
	}

	store, err := cc.OpenTable(cmd, path)
	if err != nil {
		return err
	}

	serverCfg := ui.Config{
		Store:         store,
		Addr:          cc.Cfg.Serve.Addr,
		SessionSecret: cc.Cfg.Serve.SessionSecret,
		Logger:        cc.Logger,
	}
	if cc.Cfg.Serve.Watch {
		serverCfg.WatchFile = path
	}
	server := ui.NewServer(serverCfg)

	cc.Renderer.Println(fmt.Sprintf("Serving table on http://%s", cc.Cfg.Serve.Addr))
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}
