package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithApprover configures the plan approval policy.
// If unset, plans are confirmed interactively through the handler.
func WithApprover(approver Approver) Option {
	return func(r *Runner) {
		r.Approver = approver
	}
}

// WithJournal records every executed action.
func WithJournal(journal ports.Journal) Option {
	return func(r *Runner) {
		r.Journal = journal
	}
}

// WithCatalog sets the actions offered to the assistant.
func WithCatalog(catalog []domain.ActionSpec) Option {
	return func(r *Runner) {
		r.Catalog = catalog
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithBanner sets the text printed when Run starts.
func WithBanner(banner string) Option {
	return func(r *Runner) {
		r.Banner = banner
	}
}

// WithClock overrides the time source used for journal entries.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
