package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
)

// currentCacheVersion defines the version of the cache payload shape.
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached stats payload stays usable.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedContributorStats fetches contributor stats through the payload
// cache when one is configured, falling back to a direct API call.
func cachedContributorStats(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) ([]schema.RawContributorStats, error) {
	if mgr == nil {
		return client.ContributorStats(ctx, cfg.Owner, cfg.Repo)
	}
	store := mgr.GetCacheStore()
	if store == nil {
		return client.ContributorStats(ctx, cfg.Owner, cfg.Repo)
	}

	key := statsCacheKey(cfg)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return result, nil
	}

	// Cache miss: fetch and store
	result, err := client.ContributorStats(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return result, nil
}

// checkCacheHit attempts to retrieve and validate a cached payload.
func checkCacheHit(store contract.CacheStore, key string) []schema.RawContributorStats {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var result []schema.RawContributorStats
			if err := json.Unmarshal(data, &result); err == nil {
				return result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// statsCacheKey creates a unique key based on the fetch parameters.
func statsCacheKey(cfg *contract.Config) string {
	key := fmt.Sprintf("stats:%s:%d", cfg.RepoSlug(), cfg.Weeks)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
