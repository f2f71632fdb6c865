package redisstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore spins up a miniredis server and returns a store on it.
func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, "kojo:"), mr
}

func TestStore_ReadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	v, ok, err := store.Read(context.Background(), "leaderboard")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_WriteRead(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "leaderboard", `[{"name":"A","score":100}]`))

	v, ok, err := store.Read(ctx, "leaderboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"A","score":100}]`, v)

	raw, err := mr.Get("kojo:leaderboard")
	require.NoError(t, err)
	assert.Equal(t, v, raw, "value should be stored under the prefix")
}

func TestStore_Update(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "leaderboard", func(cur string, ok bool) (string, error) {
		assert.False(t, ok)
		return "a", nil
	}))
	require.NoError(t, store.Update(ctx, "leaderboard", func(cur string, ok bool) (string, error) {
		assert.True(t, ok)
		return cur + "b", nil
	}))

	raw, err := mr.Get("kojo:leaderboard")
	require.NoError(t, err)
	assert.Equal(t, "ab", raw)
}

func TestStore_UpdateRetriesOnConflict(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	calls := 0
	err := store.Update(ctx, "leaderboard", func(cur string, ok bool) (string, error) {
		calls++
		if calls == 1 {
			// Another session writes between WATCH and EXEC.
			require.NoError(t, other.Set(ctx, "kojo:leaderboard", "theirs", 0).Err())
		}
		return cur + "+mine", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	raw, err := mr.Get("kojo:leaderboard")
	require.NoError(t, err)
	assert.Equal(t, "theirs+mine", raw)
}

func TestStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Read(context.Background(), "leaderboard")
	assert.Error(t, err)
	assert.Error(t, store.Write(context.Background(), "leaderboard", "[]"))
}

func TestNew_ConnectFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	store, err := New(cfg)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("kojo:k"))
}
