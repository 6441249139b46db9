package middleware

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// CacheVersion is a per-viewer counter mixed into response-cache keys.
// The store bumps it after every successful write, which makes the
// viewer's cached entries unreachable, so list reads never trail the
// viewer's own mutations. Abandoned entries expire with their TTL.
type CacheVersion struct {
	rdb *redis.Client
}

// NewCacheVersion returns a version source over the given redis client.
// With a nil client the version is pinned to "0" and bumps are no-ops,
// matching the cache's own pass-through behaviour.
func NewCacheVersion(rdb *redis.Client) *CacheVersion {
	return &CacheVersion{rdb: rdb}
}

func versionKey(uid string) string { return "cache:ver:" + uid }

// Current returns the viewer's cache version; "0" until the first bump
// or when redis is unreachable.
func (v *CacheVersion) Current(ctx context.Context, uid string) string {
	if v == nil || v.rdb == nil {
		return "0"
	}
	s, err := v.rdb.Get(ctx, versionKey(uid)).Result()
	if err != nil {
		return "0"
	}
	return s
}

// Bump advances the viewer's cache version. Failures are ignored; a
// stale entry only survives until its TTL.
func (v *CacheVersion) Bump(ctx context.Context, userID uint64) {
	if v == nil || v.rdb == nil {
		return
	}
	v.rdb.Incr(ctx, versionKey(strconv.FormatUint(userID, 10)))
}
