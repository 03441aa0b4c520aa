package redistore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/react_ive_go/store/redistore"
)

// needs a reachable redis, e.g. REDIS_ADDR=localhost:6379
func openTestStore(t *testing.T) *redistore.Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return redistore.New(client, "react_ive_go:test:")
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k"))

	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "absent key should read as nil, not an error")
}
