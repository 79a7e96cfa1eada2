package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-service/internal/domain/ai"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	entries map[string]*ai.ReplyCacheEntry
	finds   int
	saves   int
}

func (f *fakeStore) FindReply(_ context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error) {
	f.finds++
	if e, ok := f.entries[replyKey(customerID, msg)]; ok {
		return e, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) SaveReply(_ context.Context, e *ai.ReplyCacheEntry) error {
	f.saves++
	f.entries[replyKey(e.CustomerID, e.Message)] = e
	return nil
}

// unreachableRedis fails every command immediately.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
}

func TestReplyKey(t *testing.T) {
	assert.Equal(t, replyKey(1, "price?"), replyKey(1, "price?"))
	assert.NotEqual(t, replyKey(1, "price?"), replyKey(2, "price?"))
	assert.NotEqual(t, replyKey(1, "price?"), replyKey(1, "Price?"))
}

func TestReplyCache_FallsThroughWhenRedisDown(t *testing.T) {
	store := &fakeStore{entries: map[string]*ai.ReplyCacheEntry{}}
	cache := NewReplyCache(unreachableRedis(), store, time.Hour, zap.NewNop())
	ctx := context.Background()

	_, err := cache.FindReply(ctx, 1, "price?")
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))

	require.NoError(t, cache.SaveReply(ctx, &ai.ReplyCacheEntry{CustomerID: 1, Message: "price?", Reply: "It is 20 GHS"}))
	assert.Equal(t, 1, store.saves)

	got, err := cache.FindReply(ctx, 1, "price?")
	require.NoError(t, err)
	assert.Equal(t, "It is 20 GHS", got.Reply)
	assert.Equal(t, 2, store.finds)
}
