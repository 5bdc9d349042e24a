// Package mcp exposes the action catalog as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/deckhand"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource holding the provider-facing tool list.
const CatalogURI = "deckhand://actions"

// Executor runs one action request.
type Executor interface {
	Execute(ctx context.Context, req domain.ActionRequest) domain.ActionResult
}

// Server wraps the executor and exposes every catalog action as an MCP tool.
type Server struct {
	executor  Executor
	catalog   *registry.Catalog
	journal   ports.Journal
	tools     []mcp.Tool
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithJournal records every action executed through MCP.
func WithJournal(j ports.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(exec Executor, catalog *registry.Catalog, opts ...Option) *Server {
	if catalog == nil {
		catalog = registry.Default()
	}
	s := &Server{
		executor:  exec,
		catalog:   catalog,
		mcpServer: server.NewMCPServer("deckhand-mcp", strings.TrimSpace(deckhand.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Tools returns the tool definitions registered on the server.
func (s *Server) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
// It listens on loopback only.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	for _, spec := range s.catalog.List() {
		tool := NewTool(spec)
		s.tools = append(s.tools, tool)
		s.mcpServer.AddTool(tool, s.handleAction(spec.Name))
	}
}

// NewTool converts an ActionSpec into an MCP tool definition.
func NewTool(spec domain.ActionSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case domain.ParamArray:
			items := p.Items
			if items == "" {
				items = domain.ParamString
			}
			props = append(props, mcp.Items(map[string]any{"type": items}))
			opts = append(opts, mcp.WithArray(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(spec.Name, opts...)
}

func (s *Server) handleAction(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		req := domain.ActionRequest{ID: uuid.NewString(), Name: name, Arguments: string(args)}
		res := s.executor.Execute(ctx, req)
		if s.journal != nil {
			if err := s.journal.Append(ctx, domain.NewJournalEntry(req, res, time.Now())); err != nil {
				slog.Warn("MCP: Journal append failed", "action", name, "error", err)
			}
		}

		if res.IsError() {
			return mcp.NewToolResultError(res.Err.Message), nil
		}
		payload, err := json.Marshal(res.Payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Action Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(registry.ToolDefinitions(s.catalog.List()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
