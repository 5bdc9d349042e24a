package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/deckhand/internal/cli"
	"github.com/aretw0/deckhand/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes every deckhand action as an MCP tool, so an MCP client
(an editor or desktop agent) can call them directly.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP on 127.0.0.1.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		debug, _ := cmd.Flags().GetBool("debug")

		// Logs go to stderr; stdout belongs to JSON-RPC in stdio mode.
		logger := cli.CreateLogger(debug, cfg.Log.Level)
		log.SetOutput(os.Stderr)

		journal, closeJournal, err := cli.OpenJournal(cfg)
		if err != nil {
			return err
		}
		defer closeJournal()

		assistant := cli.NewAssistant(cfg, logger, nil)
		var opts []mcp.Option
		if journal != nil {
			opts = append(opts, mcp.WithJournal(journal))
		}
		srv := mcp.NewServer(assistant.Executor(), assistant.Catalog(), opts...)

		switch transport {
		case "stdio":
			logger.Info("Starting Deckhand MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Deckhand MCP Server (SSE)", "port", port)

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
