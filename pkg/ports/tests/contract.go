// Package tests holds reusable contract suites for the ports.
package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract. The journal must start empty.
func RunJournalContract(t *testing.T, journal ports.Journal) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entry := func(i int) domain.JournalEntry {
		return domain.JournalEntry{
			ID:        fmt.Sprintf("call_%d", i),
			Time:      base.Add(time.Duration(i) * time.Second),
			Action:    domain.ActionFindFiles,
			Arguments: `{"pattern":"*.go","search_path":"."}`,
			Outcome:   domain.OutcomeOK,
		}
	}

	t.Run("Empty", func(t *testing.T) {
		entries, err := journal.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Append and List", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			require.NoError(t, journal.Append(ctx, entry(i)), "Append should not return error")
		}
		failed := entry(4)
		failed.Action = domain.ActionRunTerminalCommand
		failed.Outcome = domain.OutcomeError
		failed.Error = "executing run_terminal_command: invalid arguments"
		require.NoError(t, journal.Append(ctx, failed))

		entries, err := journal.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "call_1", entries[0].ID, "entries should be oldest first")
		assert.Equal(t, "call_4", entries[3].ID)
		assert.Equal(t, domain.OutcomeError, entries[3].Outcome)
		assert.Equal(t, failed.Error, entries[3].Error)
		assert.Equal(t, failed.Arguments, entries[3].Arguments)
		assert.True(t, entries[0].Time.Equal(base.Add(time.Second)))
	})

	t.Run("List With Limit", func(t *testing.T) {
		entries, err := journal.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "call_3", entries[0].ID)
		assert.Equal(t, "call_4", entries[1].ID)
	})

	t.Run("Concurrent Append", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 10; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, journal.Append(ctx, entry(i)))
			}(i)
		}
		wg.Wait()

		entries, err := journal.List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 14)
	})
}
