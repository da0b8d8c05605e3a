// Package app wires configuration into the storage, cache and matching layers
// shared by the HTTP server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/boqmatch/backend/config"
	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/infrastructure/cache"
	"github.com/boqmatch/backend/internal/infrastructure/catalog"
	"github.com/boqmatch/backend/internal/infrastructure/sqlite"
	"github.com/boqmatch/backend/internal/usecase"
)

// Services is the assembled application graph
type Services struct {
	Store     *sqlite.Store
	Matcher   *usecase.MatchingService
	Ingestion *usecase.IngestionService

	cache *cache.MemoryCache
}

// Build opens the store, loads the catalog and constructs the matcher.
// The catalog is read once; restart to pick up catalog changes.
func Build(ctx context.Context, cfg *config.Config) (*Services, error) {
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	materials, err := LoadCatalog(ctx, cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Printf("[APP] Catalog loaded: %d materials (source: %s)", len(materials), cfg.Catalog.Source)

	services := &Services{Store: store}

	var aliases domain.AliasRepository = store
	if cfg.Cache.Type == config.CacheTypeMemory {
		services.cache = cache.NewMemoryCache(0)
		aliases = cache.NewAliasRepository(store, services.cache, cfg.Cache.TTL)
		log.Printf("[APP] Alias cache enabled (ttl: %s)", cfg.Cache.TTL)
	}

	services.Matcher = usecase.NewMatchingService(materials, aliases, store, usecase.MatchConfig{
		AutoAliasThreshold: cfg.Matching.AutoAliasThreshold,
		SuggestThreshold:   cfg.Matching.SuggestThreshold,
		LowThreshold:       cfg.Matching.LowThreshold,
		CementBrands:       cfg.Matching.CementBrands,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	services.Ingestion = usecase.NewIngestionService(services.Matcher)

	return services, nil
}

// LoadCatalog reads canonical materials from the configured source
func LoadCatalog(ctx context.Context, cfg *config.Config, store domain.CatalogRepository) ([]domain.Material, error) {
	var source domain.CatalogRepository
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		source = catalog.NewSource(cfg.Catalog.Path)
	case config.CatalogSourceDatabase, "":
		source = store
	default:
		return nil, fmt.Errorf("%w: unknown catalog source %q", domain.ErrCatalogUnavailable, cfg.Catalog.Source)
	}

	materials, err := source.ListMaterials(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(materials) == 0 {
		log.Printf("[APP] WARNING: catalog is empty, every match will need review")
	}

	return materials, nil
}

// ImportCatalog upserts the materials of a YAML catalog file into the store
func ImportCatalog(ctx context.Context, store *sqlite.Store, path string) (int, error) {
	materials, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := store.UpsertMaterials(ctx, materials); err != nil {
		return 0, err
	}
	log.Printf("[APP] Imported %d materials from %s", len(materials), path)
	return len(materials), nil
}

// Close releases the cache sweeper and the database
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	if s.cache != nil {
		log.Printf("[APP] Alias cache held %d entries at shutdown", s.cache.Size())
		s.cache.Close()
	}
	return s.Store.Close()
}
