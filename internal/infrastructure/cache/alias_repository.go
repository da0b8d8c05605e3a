package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/boqmatch/backend/internal/domain"
)

const aliasKeyPrefix = "alias:"

// AliasRepository serves alias lookups from a cache in front of the alias store.
// Only hits are cached: a miss always reaches the store so aliases written by
// other processes become visible immediately.
type AliasRepository struct {
	store domain.AliasRepository
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewAliasRepository wraps store with cache using the given entry TTL
func NewAliasRepository(store domain.AliasRepository, cache domain.CacheRepository, ttl time.Duration) *AliasRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AliasRepository{store: store, cache: cache, ttl: ttl}
}

// FindAliasByName checks the cache before querying the store
func (r *AliasRepository) FindAliasByName(ctx context.Context, aliasName string) (*domain.MaterialAlias, error) {
	key := aliasKeyPrefix + aliasName

	if data, err := r.cache.Get(ctx, key); err == nil {
		var alias domain.MaterialAlias
		if err := json.Unmarshal(data, &alias); err == nil {
			return &alias, nil
		}
		// Corrupt entry; drop it and fall through to the store
		_ = r.cache.Delete(ctx, key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[ALIAS] Cache read failed for %q: %v", aliasName, err)
	}

	alias, err := r.store.FindAliasByName(ctx, aliasName)
	if err != nil {
		return nil, err
	}

	r.remember(ctx, key, alias)
	return alias, nil
}

// InsertAlias writes through to the store and caches the new row
func (r *AliasRepository) InsertAlias(ctx context.Context, alias domain.MaterialAlias) error {
	if err := r.store.InsertAlias(ctx, alias); err != nil {
		return err
	}

	r.remember(ctx, aliasKeyPrefix+alias.AliasName, &alias)
	return nil
}

func (r *AliasRepository) remember(ctx context.Context, key string, alias *domain.MaterialAlias) {
	data, err := json.Marshal(alias)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		log.Printf("[ALIAS] Cache write failed for %q: %v", key, err)
	}
}
