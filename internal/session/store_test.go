package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicassist/appointment-agent/internal/agent"
)

func sampleState() *agent.State {
	st := agent.NewState()
	st.BeginTurn("book me for July 5 at 10")
	st.Date = "2025-07-05"
	st.LastUserIntent = "APPOINTMENT_DETAILS"
	st.AwaitingUserResponse = true
	return st
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	st := sampleState()
	require.NoError(t, store.Save(ctx, "s1", st))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	st := sampleState()
	require.NoError(t, store.Save(ctx, "s1", st))

	// Mutating the caller's copy must not affect the stored state.
	st.Date = "2025-08-01"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-05", loaded.Date)

	// Mutating a loaded copy must not affect later loads either.
	loaded.Email = "a@b.com"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Email)
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour, nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	st := sampleState()
	require.NoError(t, store.Save(ctx, "s1", st))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, time.Minute, nil)

	require.NoError(t, store.Save(context.Background(), "s1", sampleState()))

	ttl := mr.TTL("session:state:s1")
	assert.Equal(t, time.Minute, ttl)
}
