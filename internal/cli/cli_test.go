package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/deckhand/internal/config"
	"github.com/aretw0/deckhand/pkg/adapters/file"
	"github.com/aretw0/deckhand/pkg/adapters/memory"
	"github.com/aretw0/deckhand/pkg/adapters/redis"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Provider: config.ProviderConfig{APIKey: "sk-test", Model: "test/model", BaseURL: baseURL},
		Actions:  config.ActionsConfig{CommandTimeout: 5 * time.Second, Collision: "overwrite"},
		Journal:  config.JournalConfig{Driver: config.JournalNone},
	}
}

// replyServer answers every chat completion with body and counts the requests.
func replyServer(t *testing.T, status int, body any) (*httptest.Server, *int) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func messageBody(text string) map[string]any {
	return map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": text}}}}
}

func writeFileBody(path string) map[string]any {
	args, _ := json.Marshal(map[string]string{"path": path, "content": "done"})
	return map[string]any{"choices": []any{map[string]any{"message": map[string]any{
		"tool_calls": []any{map[string]any{
			"id":       "call_1",
			"type":     "function",
			"function": map[string]any{"name": "write_file", "arguments": string(args)},
		}},
	}}}}
}

func TestCreateLogger(t *testing.T) {
	ctx := context.Background()
	assert.True(t, CreateLogger(true, "error").Enabled(ctx, slog.LevelDebug), "debug flag wins over log.level")
	assert.False(t, CreateLogger(false, "").Enabled(ctx, slog.LevelDebug))
	assert.False(t, CreateLogger(false, "error").Enabled(ctx, slog.LevelWarn))
	assert.True(t, CreateLogger(false, "info").Enabled(ctx, slog.LevelInfo))
}

func TestNewAssistant_AppliesConfig(t *testing.T) {
	cfg := testConfig("http://example.invalid/v1/")
	a := NewAssistant(cfg, CreateLogger(false, ""), observability.NewMetrics())
	assert.Equal(t, "test/model", a.Client().Model())
	assert.NotEmpty(t, a.Catalog().List())
}

func TestOpenJournal(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		journal config.JournalConfig
		check   func(t *testing.T, j any)
		wantErr bool
	}{
		{
			name:    "None",
			journal: config.JournalConfig{Driver: config.JournalNone},
			check:   func(t *testing.T, j any) { assert.Nil(t, j) },
		},
		{
			name:    "File",
			journal: config.JournalConfig{Driver: config.JournalFile, Path: filepath.Join(t.TempDir(), "j.jsonl")},
			check:   func(t *testing.T, j any) { assert.IsType(t, &file.Journal{}, j) },
		},
		{
			name:    "Redis",
			journal: config.JournalConfig{Driver: config.JournalRedis, RedisURL: "redis://" + mr.Addr(), Prefix: "test:", Limit: 10},
			check:   func(t *testing.T, j any) { assert.IsType(t, &redis.Journal{}, j) },
		},
		{
			name:    "Bad Redis URL",
			journal: config.JournalConfig{Driver: config.JournalRedis, RedisURL: "not a url"},
			wantErr: true,
		},
		{
			name:    "Unknown Driver",
			journal: config.JournalConfig{Driver: "sqlite"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("")
			cfg.Journal = tt.journal
			j, closeFn, err := OpenJournal(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer closeFn()
			tt.check(t, j)
		})
	}
}

func TestOpenJournal_RedactsAndEncrypts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.jsonl")
	cfg := testConfig("")
	cfg.Journal = config.JournalConfig{
		Driver:        config.JournalFile,
		Path:          path,
		Redact:        []string{"content"},
		EncryptionKey: base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)),
	}

	j, closeFn, err := OpenJournal(cfg)
	require.NoError(t, err)
	defer closeFn()

	ctx := context.Background()
	require.NoError(t, j.Append(ctx, domain.JournalEntry{
		ID:        "call_1",
		Action:    domain.ActionWriteFile,
		Arguments: `{"path":"a.txt","content":"private"}`,
		Outcome:   domain.OutcomeOK,
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "a.txt")
	assert.Contains(t, string(raw), "write_file")

	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"path":"a.txt","content":"***"}`, entries[0].Arguments)
}

func TestOpenServerJournal_FallsBackToMemory(t *testing.T) {
	j, closeFn, err := OpenServerJournal(testConfig(""))
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.Journal{}, j)
}

func TestAsk_ExecutesApprovedPlan(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	srv, _ := replyServer(t, http.StatusOK, writeFileBody(target))

	journalPath := filepath.Join(t.TempDir(), "journal.jsonl")
	cfg := testConfig(srv.URL)
	cfg.Journal = config.JournalConfig{Driver: config.JournalFile, Path: journalPath}

	var out bytes.Buffer
	err := Ask(context.Background(), "write a file", ChatOptions{
		Config: cfg,
		Yes:    true,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "done", string(data))
	assert.Contains(t, out.String(), "Result (write_file):")

	entries, err := file.NewJournal(journalPath).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "write_file", entries[0].Action)
}

func TestAsk_DenyCancelsPlan(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	srv, _ := replyServer(t, http.StatusOK, writeFileBody(target))

	var out bytes.Buffer
	err := Ask(context.Background(), "write a file", ChatOptions{
		Config: testConfig(srv.URL),
		Yes:    true,
		Deny:   []string{"write_file"},
		Stdin:  strings.NewReader(""),
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.NoFileExists(t, target)
	assert.Contains(t, out.String(), "Action cancelled.")
}

func TestAsk_ProviderErrorFails(t *testing.T) {
	srv, _ := replyServer(t, http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "bad key"}})

	var out bytes.Buffer
	err := Ask(context.Background(), "hi", ChatOptions{
		Config: testConfig(srv.URL),
		JSON:   true,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
	})
	assert.ErrorIs(t, err, ErrActionsFailed)
	assert.Contains(t, out.String(), `"type":"error"`)
}

func TestAsk_MissingCredential(t *testing.T) {
	cfg := testConfig("")
	cfg.Provider.APIKey = ""
	err := Ask(context.Background(), "hi", ChatOptions{Config: cfg, Stdout: &bytes.Buffer{}})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestChat_JSONModeUntilEOF(t *testing.T) {
	srv, calls := replyServer(t, http.StatusOK, messageBody("Hello there"))

	var out bytes.Buffer
	err := Chat(context.Background(), ChatOptions{
		Config: testConfig(srv.URL),
		JSON:   true,
		Stdin:  strings.NewReader("\"hi\"\n"),
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Contains(t, out.String(), "Hello there")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestVerify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Chdir(t.TempDir())
		srv, _ := replyServer(t, http.StatusOK, messageBody("Ready."))

		var out bytes.Buffer
		require.NoError(t, Verify(context.Background(), testConfig(srv.URL), &out))
		assert.Contains(t, out.String(), "Testing API connection...")
		assert.Contains(t, out.String(), "SUCCESS: Connection established.")
		assert.NoFileExists(t, VerifyLog)
	})

	t.Run("Failure Writes Log", func(t *testing.T) {
		t.Chdir(t.TempDir())
		srv, _ := replyServer(t, http.StatusInternalServerError, map[string]any{"error": "boom"})

		var out bytes.Buffer
		err := Verify(context.Background(), testConfig(srv.URL), &out)
		assert.ErrorIs(t, err, ErrActionsFailed)
		assert.Contains(t, out.String(), "FAILED: See error.log")

		data, err := os.ReadFile(VerifyLog)
		require.NoError(t, err)
		assert.Contains(t, string(data), "500")
	})
}
