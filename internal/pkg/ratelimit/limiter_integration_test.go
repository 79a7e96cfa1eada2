//go:build integration

package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_EnforcesQuota(t *testing.T) {
	addr := os.Getenv("CRM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CRM_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	l := NewLimiter(client, "test:"+ulid.Make().String(), 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
