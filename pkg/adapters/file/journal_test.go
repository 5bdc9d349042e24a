package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/deckhand/pkg/adapters/file"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournal_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")
	tests.RunJournalContract(t, file.NewJournal(path))
}

func TestFileJournal_OneLinePerEntry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := file.NewJournal(path)

	require.NoError(t, j.Append(ctx, domain.JournalEntry{ID: "1", Action: domain.ActionWriteFile, Arguments: "{\"content\":\"a\\nb\"}"}))
	require.NoError(t, j.Append(ctx, domain.JournalEntry{ID: "2", Action: domain.ActionFindFiles}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestFileJournal_CorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"1\"}\nnot json\n"), 0o644))

	_, err := file.NewJournal(path).List(context.Background(), 0)
	assert.ErrorContains(t, err, "journal entry 2")
}

func TestFileJournal_DefaultPath(t *testing.T) {
	assert.Equal(t, file.DefaultPath, file.NewJournal("").Path)
}

func TestFileJournal_LargeEntry(t *testing.T) {
	ctx := context.Background()
	j := file.NewJournal(filepath.Join(t.TempDir(), "journal.jsonl"))

	content := strings.Repeat("x", 5<<20)
	args, err := json.Marshal(map[string]string{"path": "big.txt", "content": content})
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, domain.JournalEntry{ID: "big", Action: domain.ActionWriteFile, Arguments: string(args)}))
	require.NoError(t, j.Append(ctx, domain.JournalEntry{ID: "small", Action: domain.ActionFindFiles}))

	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(args), entries[0].Arguments)
	assert.Equal(t, "small", entries[1].ID)

	entries, err = j.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "small", entries[0].ID)
}
