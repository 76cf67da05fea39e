package pricecache

import (
	"context"
	"errors"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

const versionCounter = "catalog_price_version"

// counterClient is the slice of the redis wrapper the cache needs.
type counterClient interface {
	Incr(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string) (string, error)
	CounterKey(name string) string
}

// Cache tracks a monotonically increasing price version. Downstream caches
// fold the version into their keys, so bumping it invalidates every cached
// price at once without deleting anything.
type Cache struct {
	client counterClient
	logg   *logger.Logger
}

// New builds the cache. A nil client disables it; every method then
// degrades to a no-op so the import path works without redis.
func New(client counterClient, logg *logger.Logger) *Cache {
	return &Cache{client: client, logg: logg}
}

// BumpVersion increments the shared price version.
func (c *Cache) BumpVersion(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	version, err := c.client.Incr(ctx, c.client.CounterKey(versionCounter))
	if err != nil {
		return err
	}
	c.logg.Info(c.logg.WithField(ctx, "version", version), "price cache version bumped")
	return nil
}

// Version reads the current price version. A counter that has never been
// bumped reads as zero.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	raw, err := c.client.Get(ctx, c.client.CounterKey(versionCounter))
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
