package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "feedcache/entry/bbc-news", []byte("payload")))

	got, err := m.Get(ctx, "feedcache/entry/bbc-news")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	_, err = m.Get(ctx, "feedcache/entry/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	require.NoError(t, m.Remove(ctx, "k"))
	require.NoError(t, m.Remove(ctx, "k"))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKeysFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "feedcache/entry/a", []byte("1")))
	require.NoError(t, m.Set(ctx, "feedcache/entry/b", []byte("2")))
	require.NoError(t, m.Set(ctx, "feedcache/index", []byte("3")))

	keys, err := m.Keys(ctx, "feedcache/entry/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"feedcache/entry/a", "feedcache/entry/b"}, keys)
}

func TestMemoryInjectedFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.FailWrites = errors.New("quota exceeded")
	assert.Error(t, m.Set(ctx, "k", []byte("v")))

	m.FailWrites = nil
	require.NoError(t, m.Set(ctx, "k", []byte("v")))

	m.FailReads = errors.New("medium unavailable")
	_, err := m.Get(ctx, "k")
	assert.Error(t, err)
	_, err = m.Keys(ctx, "")
	assert.Error(t, err)
}
