package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autowhapp/platform/pkg/logging"
)

// profileTTL bounds staleness of cached profiles between dashboard edits and
// the explicit invalidation on write.
const profileTTL = 5 * time.Minute

// ProfileCache is a read-through Redis cache in front of the repository.
// Reservation rows are never cached; only the profile itself is, since the
// chat path loads it on every inbound message.
type ProfileCache struct {
	repo   *Repository
	redis  *redis.Client
	logger *logging.Logger
}

// NewProfileCache wraps repo with a Redis cache. A nil client disables
// caching and all reads go straight to the repository.
func NewProfileCache(repo *Repository, redisClient *redis.Client, logger *logging.Logger) *ProfileCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileCache{repo: repo, redis: redisClient, logger: logger}
}

func (c *ProfileCache) key(id int64) string {
	return fmt.Sprintf("business:profile:%d", id)
}

// Get returns the cached profile, falling back to the repository on miss.
func (c *ProfileCache) Get(ctx context.Context, id int64) (*Business, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, c.key(id)).Bytes()
		if err == nil {
			var b Business
			if err := json.Unmarshal(data, &b); err == nil {
				return &b, nil
			}
			// Corrupt entry: drop it and reload.
			c.redis.Del(ctx, c.key(id))
		} else if err != redis.Nil {
			c.logger.Warn("business cache read failed", "error", err, "business_id", id)
		}
	}

	b, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if data, err := json.Marshal(b); err == nil {
			if err := c.redis.Set(ctx, c.key(id), data, profileTTL).Err(); err != nil {
				c.logger.Warn("business cache write failed", "error", err, "business_id", id)
			}
		}
	}
	return b, nil
}

// Invalidate drops the cached profile; called after every profile or
// scheduling write.
func (c *ProfileCache) Invalidate(ctx context.Context, id int64) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("business cache invalidation failed", "error", err, "business_id", id)
	}
}
