package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boqmatch/backend/internal/domain"
)

type stubAliasStore struct {
	aliases     map[string]domain.MaterialAlias
	findCalls   int
	insertError error
}

func (s *stubAliasStore) FindAliasByName(ctx context.Context, aliasName string) (*domain.MaterialAlias, error) {
	s.findCalls++
	if alias, ok := s.aliases[aliasName]; ok {
		return &alias, nil
	}
	return nil, domain.ErrAliasNotFound
}

func (s *stubAliasStore) InsertAlias(ctx context.Context, alias domain.MaterialAlias) error {
	if s.insertError != nil {
		return s.insertError
	}
	s.aliases[alias.AliasName] = alias
	return nil
}

func TestAliasRepository_FindAliasByName(t *testing.T) {
	ctx := context.Background()

	t.Run("caches hits", func(t *testing.T) {
		store := &stubAliasStore{aliases: map[string]domain.MaterialAlias{
			"river sand": {AliasName: "river sand", MaterialCode: "sand-river"},
		}}
		mem := NewMemoryCache(time.Minute)
		defer mem.Close()
		repo := NewAliasRepository(store, mem, time.Minute)

		for i := 0; i < 3; i++ {
			alias, err := repo.FindAliasByName(ctx, "river sand")
			require.NoError(t, err)
			assert.Equal(t, "sand-river", alias.MaterialCode)
		}
		assert.Equal(t, 1, store.findCalls)
	})

	t.Run("does not cache misses", func(t *testing.T) {
		store := &stubAliasStore{aliases: map[string]domain.MaterialAlias{}}
		mem := NewMemoryCache(time.Minute)
		defer mem.Close()
		repo := NewAliasRepository(store, mem, time.Minute)

		_, err := repo.FindAliasByName(ctx, "gravel")
		assert.ErrorIs(t, err, domain.ErrAliasNotFound)

		store.aliases["gravel"] = domain.MaterialAlias{AliasName: "gravel", MaterialCode: "stone-19"}
		alias, err := repo.FindAliasByName(ctx, "gravel")
		require.NoError(t, err)
		assert.Equal(t, "stone-19", alias.MaterialCode)
		assert.Equal(t, 2, store.findCalls)
	})

	t.Run("preserves confidence through the cache", func(t *testing.T) {
		score := 0.93
		store := &stubAliasStore{aliases: map[string]domain.MaterialAlias{
			"rivers sand": {AliasName: "rivers sand", MaterialCode: "sand-river", ConfidenceScore: &score},
		}}
		mem := NewMemoryCache(time.Minute)
		defer mem.Close()
		repo := NewAliasRepository(store, mem, time.Minute)

		_, err := repo.FindAliasByName(ctx, "rivers sand")
		require.NoError(t, err)
		cached, err := repo.FindAliasByName(ctx, "rivers sand")
		require.NoError(t, err)
		assert.Equal(t, 0.93, cached.Confidence())
	})
}

func TestAliasRepository_InsertAlias(t *testing.T) {
	ctx := context.Background()

	t.Run("writes through and populates cache", func(t *testing.T) {
		store := &stubAliasStore{aliases: map[string]domain.MaterialAlias{}}
		mem := NewMemoryCache(time.Minute)
		defer mem.Close()
		repo := NewAliasRepository(store, mem, time.Minute)

		require.NoError(t, repo.InsertAlias(ctx, domain.MaterialAlias{AliasName: "brickforce", MaterialCode: "bf-150"}))

		alias, err := repo.FindAliasByName(ctx, "brickforce")
		require.NoError(t, err)
		assert.Equal(t, "bf-150", alias.MaterialCode)
		assert.Equal(t, 0, store.findCalls)
	})

	t.Run("store errors are returned and not cached", func(t *testing.T) {
		store := &stubAliasStore{aliases: map[string]domain.MaterialAlias{}, insertError: domain.ErrAliasExists}
		mem := NewMemoryCache(time.Minute)
		defer mem.Close()
		repo := NewAliasRepository(store, mem, time.Minute)

		err := repo.InsertAlias(ctx, domain.MaterialAlias{AliasName: "brickforce", MaterialCode: "bf-150"})
		assert.True(t, errors.Is(err, domain.ErrAliasExists))
		assert.Equal(t, 0, mem.Size())
	})
}
