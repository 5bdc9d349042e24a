package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/deckhand/pkg/adapters/redis"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisJournal_Contract(t *testing.T) {
	_, client := newClient(t)
	tests.RunJournalContract(t, redis.NewFromClient(client))
}

func TestRedisJournal_PrefixAndLimit(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	j := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithLimit(2))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.Append(ctx, domain.JournalEntry{ID: id, Action: domain.ActionFindFiles}))
	}

	assert.True(t, mr.Exists("test:journal"))
	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID)
	assert.Equal(t, "c", entries[1].ID)
}

func TestRedisJournal_FromURL(t *testing.T) {
	mr, _ := newClient(t)

	j, err := redis.New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(context.Background(), domain.JournalEntry{ID: "x"}))
	entries, err := j.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = redis.New("://bad")
	assert.Error(t, err)
}
