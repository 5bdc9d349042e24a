// Package file stores the audit journal as a JSON Lines file.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/deckhand/pkg/domain"
)

// DefaultPath is used when NewJournal receives an empty path.
var DefaultPath = filepath.Join(".deckhand", "journal.jsonl")

// Journal implements ports.Journal on the local filesystem, one JSON object per line.
type Journal struct {
	Path string
	mu   sync.Mutex
}

// NewJournal creates a journal backed by path.
// If path is empty, it defaults to DefaultPath.
func NewJournal(path string) *Journal {
	if path == "" {
		path = DefaultPath
	}
	return &Journal{Path: path}
}

// Append writes the entry as a new line, creating the file and its directory if needed.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	f, err := os.OpenFile(j.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return f.Close()
}

// List reads the file back. A missing file is an empty journal.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.JournalEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	// Entries are decoded as a stream, so a single entry may be arbitrarily large
	// (write_file carries the whole content in its arguments).
	entries := []domain.JournalEntry{}
	dec := json.NewDecoder(bufio.NewReader(f))
	for n := 1; ; n++ {
		var entry domain.JournalEntry
		if err := dec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("journal entry %d: %w", n, err)
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= 2*limit {
			entries = append(entries[:0], entries[len(entries)-limit:]...)
		}
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
