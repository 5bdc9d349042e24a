package memory

import (
	"context"
	"sync"

	"github.com/aretw0/deckhand/pkg/domain"
)

// Journal implements ports.Journal in memory.
// Safe for concurrent use.
type Journal struct {
	entries []domain.JournalEntry
	mu      sync.RWMutex
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append records the entry.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// List returns a copy of the most recent entries so callers can't mutate the journal.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(j.entries) {
		start = len(j.entries) - limit
	}
	out := make([]domain.JournalEntry, len(j.entries)-start)
	copy(out, j.entries[start:])
	return out, nil
}
