package kv

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/db"
)

// Runs only against a live oxidb-server.
func TestOxiDB_RoundTrip(t *testing.T) {
	host := os.Getenv("OXIDB_HOST")
	if host == "" {
		t.Skip("OXIDB_HOST not set")
	}
	port := 4444
	if v, err := strconv.Atoi(os.Getenv("OXIDB_PORT")); err == nil {
		port = v
	}
	pool, err := db.NewPool(host, port, 1)
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	b := NewOxiDB(pool)
	require.NoError(t, b.EnsureIndexes(ctx))

	s := New(b).Namespace("test", uuid.NewString())
	require.NoError(t, s.Save(ctx, KeyClientMessages, []string{"one"}))
	require.NoError(t, s.Save(ctx, KeyClientMessages, []string{"two", "one"}))

	var got []string
	ok, err := s.Load(ctx, KeyClientMessages, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"two", "one"}, got)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyClientMessages}, keys)

	require.NoError(t, s.Remove(ctx, KeyClientMessages))
	has, err := s.Has(ctx, KeyClientMessages)
	require.NoError(t, err)
	assert.False(t, has)
}
