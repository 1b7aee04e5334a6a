package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"premium-gallery/internal/domain/model"
)

// AccessCache keeps the answer to "has this user paid?" warm so the access
// check does not hit Postgres on every gallery load. Entries are short-lived
// and overwritten whenever a confirmation lands.
type AccessCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewAccessCache(client RedisClient, ttl time.Duration) *AccessCache {
	return &AccessCache{client: client, ttl: ttl}
}

func accessKey(userID string) string { return "purchase_access:" + userID }

// Get returns (nil, nil) on a cache miss.
func (c *AccessCache) Get(ctx context.Context, userID string) (*model.AccessStatus, error) {
	data, err := c.client.Get(ctx, accessKey(userID))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, nil
		}
		return nil, err
	}
	var st model.AccessStatus
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *AccessCache) Set(ctx context.Context, userID string, st *model.AccessStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, accessKey(userID), data, c.ttl)
}

func (c *AccessCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, accessKey(userID))
}
