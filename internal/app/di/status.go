package di

import (
	"github.com/redis/go-redis/v9"

	"finance_collector/internal/feature/companies/adapters"
	"finance_collector/internal/feature/companies/usecase"
)

// NewRunStatusStore creates a RunStatusStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to process memory.
func NewRunStatusStore(rdb *redis.Client, prefix string) usecase.RunStatusStore {
	if rdb != nil {
		return adapters.NewStatusRedis(rdb, prefix)
	}
	return adapters.NewStatusMemory()
}
