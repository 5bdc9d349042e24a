package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/deckhand/internal/cli"
	httpAdapter "github.com/aretw0/deckhand/pkg/adapters/http"
	"github.com/aretw0/deckhand/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP action API",
	Long: `Exposes the action catalog over HTTP (GET /actions, POST /actions/{name},
GET /history, GET /metrics, GET /healthz). Requests are executed without a
confirmation step, so the listener binds to loopback by default, POST bodies
must be application/json, cross-site browser origins are refused and the
action and history routes require "Authorization: Bearer <token>". Set the
token with server.token (DECKHAND_SERVER_TOKEN); otherwise one is generated
and printed at startup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(debug, cfg.Log.Level)

		journal, closeJournal, err := cli.OpenServerJournal(cfg)
		if err != nil {
			return err
		}
		defer closeJournal()

		token := cfg.Server.Token
		if token == "" {
			token = uuid.NewString()
			fmt.Fprintf(cmd.ErrOrStderr(), "Access token: %s\n", token)
		}

		metrics := observability.NewMetrics()
		assistant := cli.NewAssistant(cfg, logger, metrics)
		handler := httpAdapter.NewHandler(assistant.Executor(), assistant.Catalog(),
			httpAdapter.WithJournal(journal),
			httpAdapter.WithMetrics(metrics.Registry()),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithToken(token),
			httpAdapter.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Deckhand Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", shutdownTimeout, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			fmt.Println("Deckhand Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from server.addr, 127.0.0.1:8080)")
}
