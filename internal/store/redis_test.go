package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set ARRANGE_TEST_REDIS=host:port to run against a live server.
func TestRedisLayouts(t *testing.T) {
	addr := os.Getenv("ARRANGE_TEST_REDIS")
	if addr == "" {
		t.Skip("ARRANGE_TEST_REDIS not set")
	}
	ctx := context.Background()
	key := "arrange:test:" + uuid.NewString()
	s, err := NewRedisLayouts(ctx, addr, key)
	require.NoError(t, err)
	defer func() {
		s.client.Del(ctx, key)
		s.Close()
	}()

	b, a := sample("b"), sample("a")
	require.NoError(t, s.Save(ctx, b))
	require.NoError(t, s.Save(ctx, a))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, b, got[1])

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)
}

func TestNewRedisLayouts_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRedisLayouts(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
