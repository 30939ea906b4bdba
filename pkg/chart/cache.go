package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskatlas/platform/pkg/common/logger"
	"github.com/riskatlas/platform/pkg/common/models"
)

// Cache keeps computed chart series in Redis so repeated dashboard loads
// do not refetch the full row set. A nil client disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, hotspot string) (*models.ChartSeries, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, cacheKey(hotspot)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Debug("chart cache read failed")
		}
		return nil, false
	}

	var series models.ChartSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		logger.Log.WithError(err).Warn("discarding corrupt chart cache entry")
		return nil, false
	}
	return &series, true
}

func (c *Cache) Set(ctx context.Context, series models.ChartSeries) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(series)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(series.Hotspot), raw, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("chart cache write failed")
	}
}

// cacheKey folds case so "HS1" and "hs1", which aggregate to the same
// series, share one entry.
func cacheKey(hotspot string) string {
	return fmt.Sprintf("chart:%s", strings.ToLower(hotspot))
}
