package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/feature/companies/usecase"
)

// StatusRedis implements usecase.RunStatusStore using Redis.
type StatusRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.RunStatusStore = (*StatusRedis)(nil)

// NewStatusRedis creates a new StatusRedis instance.
func NewStatusRedis(client *redis.Client, prefix string) *StatusRedis {
	return &StatusRedis{
		client: client,
		prefix: prefix,
	}
}

// lastRunKey returns the Redis key for the latest run summary.
func (r *StatusRedis) lastRunKey() string {
	return fmt.Sprintf("%s:last_run", r.prefix)
}

// SaveLastRun overwrites the stored summary. The key has no expiry.
func (r *StatusRedis) SaveLastRun(ctx context.Context, s entity.RunSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	return r.client.Set(ctx, r.lastRunKey(), data, 0).Err()
}

// LastRun retrieves the stored summary.
func (r *StatusRedis) LastRun(ctx context.Context) (entity.RunSummary, error) {
	data, err := r.client.Get(ctx, r.lastRunKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.RunSummary{}, usecase.ErrRunStatusNotFound
		}
		return entity.RunSummary{}, err
	}

	var s entity.RunSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return entity.RunSummary{}, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return s, nil
}
