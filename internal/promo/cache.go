package promo

import (
	"context"
	"encoding/json"
	"ms-experiences/internal/models"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "promo:"

// Cache is a read-through Redis cache over the promo registry. The registry
// is read-only in the booking flow, so a short TTL only delays visibility of
// out-of-band activation changes.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: client, TTL: ttl}
}

// Get returns the cached promo and whether the lookup hit. Cache errors are
// treated as misses; the registry stays authoritative.
func (c *Cache) Get(ctx context.Context, code string) (*models.PromoCode, bool) {
	val, err := c.Client.Get(ctx, cacheKeyPrefix+code).Result()
	if err != nil {
		return nil, false
	}

	var promo models.PromoCode
	if err := json.Unmarshal([]byte(val), &promo); err != nil {
		return nil, false
	}
	return &promo, true
}

// Set stores a registry row under its code. Failures are ignored; the next
// lookup falls through to the registry.
func (c *Cache) Set(ctx context.Context, promo models.PromoCode) {
	data, err := json.Marshal(promo)
	if err != nil {
		return
	}
	_ = c.Client.Set(ctx, cacheKeyPrefix+promo.Code, data, c.TTL).Err()
}
