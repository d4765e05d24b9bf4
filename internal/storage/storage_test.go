package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jislas1039-svg/higher-self/internal/logger"
)

// runBackendSuite exercises the contract every engine shares.
func runBackendSuite(t *testing.T, newBackend func(t *testing.T, quota int64) Backend) {
	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		b := newBackend(t, 0)
		_, ok, err := b.Get(ctx, "hs_profile")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RoundTripAndOverwrite", func(t *testing.T) {
		b := newBackend(t, 0)
		require.NoError(t, b.Set(ctx, "hs_theme", `"dark"`))
		require.NoError(t, b.Set(ctx, "hs_theme", `"light"`))

		v, ok, err := b.Get(ctx, "hs_theme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `"light"`, v)
	})

	t.Run("IndependentSlots", func(t *testing.T) {
		b := newBackend(t, 0)
		require.NoError(t, b.Set(ctx, "hs_stats", `{"steps":10}`))
		require.NoError(t, b.Set(ctx, "hs_journal", `[]`))
		require.NoError(t, b.Remove(ctx, "hs_journal"))

		v, ok, err := b.Get(ctx, "hs_stats")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"steps":10}`, v)

		_, ok, err = b.Get(ctx, "hs_journal")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		b := newBackend(t, 0)
		assert.NoError(t, b.Remove(ctx, "never-written"))
	})

	t.Run("Quota", func(t *testing.T) {
		b := newBackend(t, 64)
		big := strings.Repeat("x", 40)
		require.NoError(t, b.Set(ctx, "a", big))

		err := b.Set(ctx, "b", big)
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		_, ok, err := b.Get(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok, "rejected write must not be stored")

		// Rewriting an existing slot only counts its new size.
		require.NoError(t, b.Set(ctx, "a", big+"y"))

		require.NoError(t, b.Remove(ctx, "a"))
		assert.NoError(t, b.Set(ctx, "b", big))
	})
}

func TestMemoryBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T, quota int64) Backend {
		return NewMemoryBackend(quota)
	})
}

func TestFileBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T, quota int64) Backend {
		b, err := NewFileBackend(t.TempDir(), quota)
		require.NoError(t, err)
		return b
	})
}

func TestFileBackend_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir, 0)
	require.NoError(t, err)
	require.NoError(t, b.Set(context.Background(), "hs_plan", `{"schedule":[]}`))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hs_plan.json", entries[0].Name())
}

func TestSQLiteBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T, quota int64) Backend {
		b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "state.db"), quota)
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		return b
	})
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	runBackendSuite(t, func(t *testing.T, quota int64) Backend {
		b, err := NewRedisBackend(logger.NewNop(), addr, quota)
		require.NoError(t, err)
		b.hash = "higher-self:test:" + strings.ReplaceAll(t.Name(), "/", ":")
		t.Cleanup(func() {
			_ = b.rdb.Del(context.Background(), b.hash).Err()
			_ = b.Close()
		})
		return b
	})
}

func TestNewByEngine(t *testing.T) {
	dir := t.TempDir()

	b, err := NewByEngine("FILE", Options{Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = NewByEngine("memory", Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = NewByEngine("sqlite", Options{Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	_ = b.Close()

	_, err = NewByEngine("etcd", Options{})
	assert.Error(t, err)
}
