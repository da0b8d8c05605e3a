package usecase

import (
	"context"
	"sync"

	"github.com/boqmatch/backend/internal/domain"
)

// MockAliasRepository is an in-memory implementation of domain.AliasRepository
type MockAliasRepository struct {
	mu          sync.Mutex
	aliases     map[string]domain.MaterialAlias
	inserted    []domain.MaterialAlias
	findCalls   int
	findError   error
	failOn      map[string]error
	insertError error
}

func NewMockAliasRepository() *MockAliasRepository {
	return &MockAliasRepository{
		aliases: make(map[string]domain.MaterialAlias),
		failOn:  make(map[string]error),
	}
}

func (m *MockAliasRepository) FindAliasByName(ctx context.Context, aliasName string) (*domain.MaterialAlias, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	if err, ok := m.failOn[aliasName]; ok {
		return nil, err
	}
	if m.findError != nil {
		return nil, m.findError
	}
	if alias, ok := m.aliases[aliasName]; ok {
		return &alias, nil
	}
	return nil, domain.ErrAliasNotFound
}

func (m *MockAliasRepository) InsertAlias(ctx context.Context, alias domain.MaterialAlias) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserted = append(m.inserted, alias)
	if m.insertError != nil {
		return m.insertError
	}
	if _, ok := m.aliases[alias.AliasName]; ok {
		return domain.ErrAliasExists
	}
	m.aliases[alias.AliasName] = alias
	return nil
}

func (m *MockAliasRepository) put(name, code string, confidence *float64) {
	m.aliases[name] = domain.MaterialAlias{AliasName: name, MaterialCode: code, ConfidenceScore: confidence}
}

// MockReviewRepository is an in-memory implementation of domain.ReviewRepository
type MockReviewRepository struct {
	reviews     []domain.PendingReview
	insertError error
}

func (m *MockReviewRepository) InsertPendingReview(ctx context.Context, review domain.PendingReview) error {
	if m.insertError != nil {
		return m.insertError
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *MockReviewRepository) ListPendingReviews(ctx context.Context, limit int) ([]domain.PendingReview, error) {
	if limit > len(m.reviews) {
		limit = len(m.reviews)
	}
	return m.reviews[:limit], nil
}

func floatPtr(v float64) *float64 {
	return &v
}
