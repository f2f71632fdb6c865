package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := s.Read(ctx, "leaderboard")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "leaderboard", `[{"name":"A","score":10}]`))

	v, ok, err := s.Read(ctx, "leaderboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"A","score":10}]`, v)

	_, err = os.Stat(filepath.Join(dir, "leaderboard.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, a.Write(ctx, "leaderboard", "[]"))

	b, err := New(dir)
	require.NoError(t, err)
	v, ok, err := b.Read(ctx, "leaderboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestStore_InvalidKey(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../x", "a/b", ".."} {
		assert.Error(t, s.Write(context.Background(), key, "v"), key)
	}
}

func TestStore_Update(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "leaderboard", func(cur string, ok bool) (string, error) {
		assert.False(t, ok)
		return "a", nil
	}))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, "leaderboard", func(cur string, ok bool) (string, error) {
				return cur + "b", nil
			}))
		}()
	}
	wg.Wait()

	v, ok, err := s.Read(ctx, "leaderboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abbbbbbbbbb", v)

	assert.Error(t, s.Update(ctx, "../x", func(string, bool) (string, error) { return "", nil }))
}
