package deckhand

import (
	"context"
	_ "embed"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/deckhand/pkg/actions"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/executor"
	"github.com/aretw0/deckhand/pkg/observability"
	"github.com/aretw0/deckhand/pkg/provider"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/aretw0/deckhand/pkg/runner"
)

// Version is the release of this build.
//
//go:embed VERSION
var Version string

// Assistant is the high-level entry point for the library.
// It wires the provider client, the catalog and the executor together.
type Assistant struct {
	client   *provider.Client
	catalog  *registry.Catalog
	executor *executor.Executor
	metrics  *observability.Metrics
	logger   *slog.Logger

	providerOpts []provider.Option
	shellOpts    []actions.ShellOption
	collision    actions.CollisionPolicy
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithProviderOptions forwards options to the provider client.
func WithProviderOptions(opts ...provider.Option) Option {
	return func(a *Assistant) {
		a.providerOpts = append(a.providerOpts, opts...)
	}
}

// WithCommandTimeout bounds run_terminal_command.
func WithCommandTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		a.shellOpts = append(a.shellOpts, actions.WithTimeout(d))
	}
}

// WithShell selects the interpreter for run_terminal_command, e.g. "bash -c".
func WithShell(commandLine string) Option {
	return func(a *Assistant) {
		if commandLine != "" {
			a.shellOpts = append(a.shellOpts, actions.WithShell(commandLine))
		}
	}
}

// WithCollisionPolicy sets how move and copy treat existing destination files.
func WithCollisionPolicy(p actions.CollisionPolicy) Option {
	return func(a *Assistant) {
		a.collision = p
	}
}

// WithMetrics records action and provider metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Assistant) {
		a.metrics = m
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *registry.Catalog) Option {
	return func(a *Assistant) {
		a.catalog = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// New creates an Assistant authenticating with apiKey.
func New(apiKey string, opts ...Option) *Assistant {
	a := &Assistant{
		catalog:   registry.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		collision: actions.CollisionOverwrite,
	}
	for _, opt := range opts {
		opt(a)
	}

	popts := append([]provider.Option{provider.WithLogger(a.logger)}, a.providerOpts...)
	eopts := []executor.Option{
		executor.WithShell(actions.NewShell(a.shellOpts...)),
		executor.WithCollisionPolicy(a.collision),
	}
	if a.metrics != nil {
		popts = append(popts, provider.WithObserver(a.metrics))
		eopts = append(eopts, executor.WithRecorder(a.metrics))
	}

	a.client = provider.New(apiKey, popts...)
	a.executor = executor.New(a.catalog, eopts...)
	return a
}

// Ask sends one request to the provider with the full catalog attached.
func (a *Assistant) Ask(ctx context.Context, text string) domain.Reply {
	return a.client.Ask(ctx, text, a.catalog.List())
}

// Execute runs one action request.
func (a *Assistant) Execute(ctx context.Context, req domain.ActionRequest) domain.ActionResult {
	return a.executor.Execute(ctx, req)
}

// Client returns the provider client.
func (a *Assistant) Client() *provider.Client {
	return a.client
}

// Executor returns the action executor.
func (a *Assistant) Executor() *executor.Executor {
	return a.executor
}

// Catalog returns the action catalog.
func (a *Assistant) Catalog() *registry.Catalog {
	return a.catalog
}

// Runner builds a conversation loop on top of the assistant.
func (a *Assistant) Runner(opts ...runner.Option) *runner.Runner {
	base := []runner.Option{
		runner.WithCatalog(a.catalog.List()),
		runner.WithLogger(a.logger),
	}
	return runner.New(a.client, a.executor, append(base, opts...)...)
}
