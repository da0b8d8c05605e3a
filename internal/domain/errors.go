package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAliasNotFound is returned by alias stores when no row matches the name
	ErrAliasNotFound = errors.New("alias not found")

	// ErrAliasExists is returned when inserting an alias whose name is already stored
	ErrAliasExists = errors.New("alias already exists")

	// ErrAliasLookupFailed is returned when the alias store cannot be queried
	ErrAliasLookupFailed = errors.New("alias lookup failed")

	// ErrReviewInsertFailed is returned when the pending-review queue rejects a row
	ErrReviewInsertFailed = errors.New("pending review insert failed")

	// ErrCatalogUnavailable is returned when the material catalog cannot be loaded
	ErrCatalogUnavailable = errors.New("material catalog unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
