package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"mscorebench/internal/logging"
	mcpserver "mscorebench/internal/mcp"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the pipeline tools
(start_pipeline, get_status, get_run_report, list_runs) to MCP clients.

The server monitors for parent process death and self-terminates when the
client disconnects, to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws := workspace.New(cfg.Workspace)
	if err := ws.EnsureLayout(); err != nil {
		return err
	}
	st, err := store.Open(ws.DBPath())
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer st.Close()

	srv := mcpserver.NewServer(cfg, st)
	defer srv.Shutdown()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting mscorebench MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
