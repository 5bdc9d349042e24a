// Package redis stores the audit journal in a Redis list.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/deckhand/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Journal implements ports.Journal using a Redis list (RPUSH, oldest first).
type Journal struct {
	client *backend.Client
	prefix string
	limit  int64
}

type Option func(*Journal)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// WithLimit caps the list length; older entries are trimmed on append. Zero keeps everything.
func WithLimit(limit int64) Option {
	return func(j *Journal) {
		j.limit = limit
	}
}

// New creates a journal from a redis:// URL.
func New(url string, opts ...Option) (*Journal, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: "deckhand:",
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) key() string {
	return j.prefix + "journal"
}

// Append pushes the entry and trims the list when a limit is set.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.RPush(ctx, j.key(), data)
	if j.limit > 0 {
		pipe.LTrim(ctx, j.key(), -j.limit, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// List returns the most recent entries, oldest first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	vals, err := j.client.LRange(ctx, j.key(), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal from redis: %w", err)
	}

	entries := make([]domain.JournalEntry, 0, len(vals))
	for _, v := range vals {
		var entry domain.JournalEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
