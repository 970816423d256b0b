package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses a redis:// URL and returns a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// CachedCatalog is a read-through redis cache in front of a Catalog.
// Only hits are cached; a miss always reaches the backing catalog so newly
// appended rows are picked up. Cache failures fall through silently.
type CachedCatalog struct {
	next   Catalog
	client *redis.Client
	ttl    time.Duration
}

var _ Catalog = (*CachedCatalog)(nil)

func NewCachedCatalog(next Catalog, client *redis.Client, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, client: client, ttl: ttl}
}

// Ping checks the cache connection.
func (c *CachedCatalog) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CachedCatalog) FileTypeID(ctx context.Context, name string) (int, error) {
	return c.lookup(ctx, models.CategoryFileType, name, c.next.FileTypeID)
}

func (c *CachedCatalog) OutputFormatID(ctx context.Context, name string) (int, error) {
	return c.lookup(ctx, models.CategoryOutputFormat, name, c.next.OutputFormatID)
}

func cacheKey(category models.Category, name string) string {
	return "catalog:" + string(category) + ":" + strings.ToUpper(strings.TrimSpace(name))
}

func (c *CachedCatalog) lookup(ctx context.Context, category models.Category, name string, fetch func(context.Context, string) (int, error)) (int, error) {
	key := cacheKey(category, name)

	id, err := c.client.Get(ctx, key).Int()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Debug("Catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	id, err = fetch(ctx, name)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, id, c.ttl).Err(); err != nil {
		logger.Debug("Catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return id, nil
}
