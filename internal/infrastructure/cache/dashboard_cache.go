package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appreport "github.com/fieldstock/backend/internal/application/report"
	"github.com/fieldstock/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisDashboardCache caches dashboard summaries in Redis, keyed per
// organization. A cache miss is reported as (nil, nil) so callers fall
// through to the database.
type RedisDashboardCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisDashboardCache creates a new Redis-backed dashboard cache
func NewRedisDashboardCache(client *redis.Client) *RedisDashboardCache {
	return &RedisDashboardCache{
		client:    client,
		keyPrefix: "report:dashboard:",
	}
}

func (c *RedisDashboardCache) key(orgID uuid.UUID) string {
	return c.keyPrefix + orgID.String()
}

// GetSummary returns the cached summary or (nil, nil) on a miss
func (c *RedisDashboardCache) GetSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error) {
	data, err := c.client.Get(ctx, c.key(orgID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary report.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, nil
}

// SetSummary stores a summary with a TTL
func (c *RedisDashboardCache) SetSummary(ctx context.Context, orgID uuid.UUID, summary *report.DashboardSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := c.client.Set(ctx, c.key(orgID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary for an organization
func (c *RedisDashboardCache) Invalidate(ctx context.Context, orgID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(orgID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached summary: %w", err)
	}
	return nil
}

// Ensure RedisDashboardCache implements the report cache contract
var _ appreport.DashboardCache = (*RedisDashboardCache)(nil)
