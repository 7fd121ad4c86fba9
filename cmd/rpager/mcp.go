package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the rpager MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the study store (events,
moods, journal, decks and cards, references, progress and app state) as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\rpager\rpager.db
- macOS: ~/Library/Application Support/rpager/rpager.db
- Linux: $XDG_DATA_HOME/rpager/rpager.db or ~/.local/share/rpager/rpager.db

Example:
  rpager mcp
  rpager mcp --db rpager.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		srv := mcp.NewStudyMCPServer(app.store, app.state, logger)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "rpager MCP server started. DB: %s (WAL: %t, Sync: %s)\n", app.dbPath, cfg.WAL, cfg.Sync)
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
