// Package testutils provides utilities for testing, including Redis test helpers
// and a small scenario graph shared by orchestrator and handler tests.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-narrative/internal/redis"
)

// CreateTestRedisClient creates an in-memory Redis client for testing
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	client, _, cleanup := CreateTestRedisServer(t)
	return client, cleanup
}

// CreateTestRedisServer is CreateTestRedisClient that also hands back the
// miniredis server so tests can inspect or corrupt stored keys.
func CreateTestRedisServer(t *testing.T) (redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient([]string{mr.Addr()}, nil)
	require.NoError(t, err, "failed to create redis client")

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}
