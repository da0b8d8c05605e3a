package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boqmatch/backend/config"
	"github.com/boqmatch/backend/internal/domain"
)

const catalogYAML = `materials:
  - id: sand-river
    name: River Sand
    category: aggregates
  - id: cement-ppc-325n
    name: PPC 32.5N Portland Cement
    category: cement
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogYAML), 0o644))

	return &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "boqmatch.db")},
		Catalog:  config.CatalogConfig{Source: config.CatalogSourceFile, Path: catalogPath},
		Cache:    config.CacheConfig{Type: config.CacheTypeMemory, TTL: time.Minute},
		Matching: config.MatchingConfig{
			AutoAliasThreshold: 0.90,
			SuggestThreshold:   0.70,
			LowThreshold:       0.40,
		},
	}
}

func TestBuild_FileCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	services, err := Build(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, services.Matcher.CatalogSize())

	result, err := services.Matcher.Match(ctx, "Rivers Sand")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodFuzzyAutoAlias, result.Method)
	require.NoError(t, services.Close())

	// The auto-alias survives a restart because it lives in SQLite.
	cfg.Cache.Type = config.CacheTypeNone
	services, err = Build(ctx, cfg)
	require.NoError(t, err)
	defer services.Close()

	result, err = services.Matcher.Match(ctx, "rivers sand")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodAliasExact, result.Method)
	assert.Equal(t, "sand-river", result.MaterialCode)
}

func TestBuild_DatabaseCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Catalog.Source = config.CatalogSourceDatabase

	services, err := Build(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, services.Matcher.CatalogSize())

	count, err := ImportCatalog(ctx, services.Store, cfg.Catalog.Path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, services.Close())

	services, err = Build(ctx, cfg)
	require.NoError(t, err)
	defer services.Close()
	assert.Equal(t, 2, services.Matcher.CatalogSize())
}

func TestBuild_MissingCatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Build(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestLoadCatalog_UnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Source = "supabase"

	_, err := LoadCatalog(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestServicesCloseNil(t *testing.T) {
	var services *Services
	assert.NoError(t, services.Close())
}
