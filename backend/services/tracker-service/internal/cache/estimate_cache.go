package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// EstimateCache keeps the last estimate served per user in Redis. The finalizer reads it as
// the estimate-vs-actual baseline, so entries outlive a single request but expire with TTL.
type EstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEstimateCache creates a cache with the given TTL. Zero TTL keeps entries until the next
// finalization drops them.
func NewEstimateCache(client *redis.Client, ttl time.Duration) *EstimateCache {
	return &EstimateCache{client: client, ttl: ttl}
}

func estimateKey(userID int64) string {
	return fmt.Sprintf("estimates:latest:%d", userID)
}

// Save stores the snapshot, replacing any previous one.
func (c *EstimateCache) Save(ctx context.Context, userID int64, snapshot models.EstimateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal estimate snapshot: %w", err)
	}
	if err := c.client.Set(ctx, estimateKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save estimate snapshot: %w", err)
	}
	return nil
}

// Get returns the stored snapshot, or (nil, nil) when none exists.
func (c *EstimateCache) Get(ctx context.Context, userID int64) (*models.EstimateSnapshot, error) {
	data, err := c.client.Get(ctx, estimateKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate snapshot: %w", err)
	}

	var snapshot models.EstimateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal estimate snapshot: %w", err)
	}
	return &snapshot, nil
}

// Delete removes the snapshot. Deleting a missing key is not an error.
func (c *EstimateCache) Delete(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, estimateKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete estimate snapshot: %w", err)
	}
	return nil
}
