package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"todo-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pageTTL = 5 * time.Minute

// TodoCache caches rendered todo list pages per user in Redis. It is
// best-effort: failures are logged and the caller falls through to the
// database.
type TodoCache struct {
	rdb *redis.Client
}

// NewTodoCache creates a todo page cache backed by the given client.
func NewTodoCache(rdb *redis.Client) *TodoCache {
	return &TodoCache{rdb: rdb}
}

func pageKey(userID uuid.UUID, page, perPage int) string {
	return fmt.Sprintf("todos:user:%s:page:%d:per:%d", userID, page, perPage)
}

// GetPage loads a cached page into dest. Returns false on miss or error.
func (c *TodoCache) GetPage(ctx context.Context, userID uuid.UUID, page, perPage int, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, pageKey(userID, page, perPage)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Todo cache read failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Warn("Todo cache entry corrupt",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return false
	}

	return true
}

// SetPage stores a page with a short TTL.
func (c *TodoCache) SetPage(ctx context.Context, userID uuid.UUID, page, perPage int, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Todo cache marshal failed", zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, pageKey(userID, page, perPage), data, pageTTL).Err(); err != nil {
		logger.Warn("Todo cache write failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// Invalidate drops every cached page for the user. Called after any todo
// mutation.
func (c *TodoCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := fmt.Sprintf("todos:user:%s:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Todo cache invalidation failed",
				zap.String("key", iter.Val()),
				zap.Error(err),
			)
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Todo cache scan failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
