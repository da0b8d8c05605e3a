package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AliasRepository defines the alias table operations the matcher issues.
// FindAliasByName returns ErrAliasNotFound when no row exists; any other
// error means the store itself failed.
type AliasRepository interface {
	FindAliasByName(ctx context.Context, aliasName string) (*MaterialAlias, error)
	InsertAlias(ctx context.Context, alias MaterialAlias) error
}

// ReviewRepository defines the pending-review queue
type ReviewRepository interface {
	InsertPendingReview(ctx context.Context, review PendingReview) error
	ListPendingReviews(ctx context.Context, limit int) ([]PendingReview, error)
}

// CatalogRepository supplies canonical materials
type CatalogRepository interface {
	ListMaterials(ctx context.Context) ([]Material, error)
}
