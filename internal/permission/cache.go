package permission

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fly24/backoffice/internal/model"
)

// DefinitionSource is the persistence lookup behind the cache; satisfied
// by repository.RoleRepo.
type DefinitionSource interface {
	ListDefinitions(ctx context.Context) ([]model.RoleDefinition, error)
}

const defsCacheKey = "roles:definitions"

// DefinitionCache serves role definitions through redis so every load
// cycle does not re-read the role_permissions table. A nil redis client
// disables caching and reads pass straight through.
type DefinitionCache struct {
	source DefinitionSource
	rdb    *redis.Client
	ttl    time.Duration
}

// NewDefinitionCache wraps a definition source with a redis cache.
func NewDefinitionCache(source DefinitionSource, rdb *redis.Client, ttl time.Duration) *DefinitionCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DefinitionCache{source: source, rdb: rdb, ttl: ttl}
}

// ListDefinitions returns role definitions, preferring the cached copy.
// Redis failures fall back to the source; they never fail the read.
func (c *DefinitionCache) ListDefinitions(ctx context.Context) ([]model.RoleDefinition, error) {
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, defsCacheKey).Bytes(); err == nil {
			var defs []model.RoleDefinition
			if err := json.Unmarshal(raw, &defs); err == nil {
				return defs, nil
			}
		}
	}

	defs, err := c.source.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(defs); err == nil {
			_ = c.rdb.Set(ctx, defsCacheKey, raw, c.ttl).Err()
		}
	}
	return defs, nil
}

// Invalidate drops the cached definitions; call after editing a role.
func (c *DefinitionCache) Invalidate(ctx context.Context) {
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, defsCacheKey).Err()
	}
}
