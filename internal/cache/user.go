package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/notesapi/notesapi/internal/model"
)

const userKeyPrefix = "user:"

func userKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}

// GetUser retrieves a user by id.
// Returns ErrCacheMiss if not found or the entry is incomplete.
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var cached model.CachedUser
	cmd := c.client.HGetAll(ctx, userKey(id))
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return nil, ErrCacheMiss
	}
	if err := cmd.Scan(&cached); err != nil {
		return nil, ErrCacheMiss
	}

	user, ok := cached.ToUser(id)
	if !ok {
		return nil, ErrCacheMiss
	}
	return user, nil
}

// SetUser stores a user with the configured TTL.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := userKey(user.ID)
	cached := user.ToCachedUser()

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cached)
		pipe.Expire(ctx, key, c.userTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set user failed: %w", err)
	}
	return nil
}

// DeleteUser removes a cached user.
func (c *Cache) DeleteUser(ctx context.Context, id int64) error {
	return c.client.Del(ctx, userKey(id)).Err()
}
