package ports

import (
	"context"

	"github.com/aretw0/deckhand/pkg/domain"
)

// Journal defines the interface for the audit history of executed actions.
// Implementations must be safe for concurrent use.
type Journal interface {
	// Append records one entry.
	Append(ctx context.Context, entry domain.JournalEntry) error

	// List returns the most recent entries, oldest first.
	// A limit of zero or less returns every entry.
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
