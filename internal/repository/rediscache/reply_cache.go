package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/ai"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReplyStore is the durable reply cache this package fronts.
type ReplyStore interface {
	FindReply(ctx context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error)
	SaveReply(ctx context.Context, e *ai.ReplyCacheEntry) error
}

// ReplyCache keeps recently used replies in redis in front of the durable store.
// Redis failures are logged and the durable store answers instead.
type ReplyCache struct {
	client *redis.Client
	next   ReplyStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewReplyCache(client *redis.Client, next ReplyStore, ttl time.Duration, logger *zap.Logger) *ReplyCache {
	return &ReplyCache{client: client, next: next, ttl: ttl, logger: logger}
}

func replyKey(customerID int64, msg string) string {
	return fmt.Sprintf("crm:ai:reply:%d:%s", customerID, ai.MessageHash(msg))
}

func (c *ReplyCache) FindReply(ctx context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error) {
	key := replyKey(customerID, msg)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e ai.ReplyCacheEntry
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil && e.Message == msg {
			return &e, nil
		}
		c.logger.Warn("discarding unreadable cached reply", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("redis reply lookup failed", zap.Error(err))
	}

	e, err := c.next.FindReply(ctx, customerID, msg)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, e)
	return e, nil
}

func (c *ReplyCache) SaveReply(ctx context.Context, e *ai.ReplyCacheEntry) error {
	if err := c.next.SaveReply(ctx, e); err != nil {
		return err
	}
	c.store(ctx, replyKey(e.CustomerID, e.Message), e)
	return nil
}

// Invalidate drops every hot entry for a customer.
func (c *ReplyCache) Invalidate(ctx context.Context, customerID int64) error {
	pattern := fmt.Sprintf("crm:ai:reply:%d:*", customerID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan reply cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reply cache: %w", err)
	}
	return nil
}

func (c *ReplyCache) store(ctx context.Context, key string, e *ai.ReplyCacheEntry) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis reply store failed", zap.Error(err))
	}
}

var _ ReplyStore = (*ReplyCache)(nil)
