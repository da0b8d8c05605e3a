package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boqmatch/backend/internal/domain"
)

// Default confidence tiers. Every comparison is strict greater-than.
const (
	DefaultAutoAliasThreshold = 0.90
	DefaultSuggestThreshold   = 0.70
	DefaultLowThreshold       = 0.40
)

// Cement scoring bonuses
const (
	brandMatchBonus = 0.15
	gradeMatchBonus = 0.20
	maxScore        = 1.0
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	AutoAliasThreshold float64
	SuggestThreshold   float64
	LowThreshold       float64
	CementBrands       []string
	EnableDebugLogging bool
}

// catalogEntry is a material with its comparison form precomputed
type catalogEntry struct {
	material   domain.Material
	normalized string
	isCement   bool
	cement     CementInfo
}

// MatchingService reconciles scraped product names against the canonical
// material catalog. The catalog is fixed at construction and never mutated.
type MatchingService struct {
	aliases   domain.AliasRepository
	reviews   domain.ReviewRepository
	catalog   []catalogEntry
	extractor *CementExtractor

	autoAliasThreshold float64
	suggestThreshold   float64
	lowThreshold       float64
	enableDebugLogging bool

	now   func() time.Time
	newID func() string
}

// NewMatchingService creates a new matching service with the given catalog, stores and configuration
func NewMatchingService(
	catalog []domain.Material,
	aliases domain.AliasRepository,
	reviews domain.ReviewRepository,
	config MatchConfig,
) *MatchingService {
	autoAlias := config.AutoAliasThreshold
	if autoAlias <= 0 {
		autoAlias = DefaultAutoAliasThreshold
	}
	suggest := config.SuggestThreshold
	if suggest <= 0 {
		suggest = DefaultSuggestThreshold
	}
	low := config.LowThreshold
	if low <= 0 {
		low = DefaultLowThreshold
	}

	extractor := NewCementExtractor(config.CementBrands)

	entries := make([]catalogEntry, 0, len(catalog))
	for _, material := range catalog {
		entry := catalogEntry{
			material:   material,
			normalized: Normalize(material.Name),
			isCement:   strings.EqualFold(strings.TrimSpace(material.Category), domain.CategoryCement),
		}
		if entry.isCement {
			entry.cement = extractor.Extract(material.Name)
		}
		entries = append(entries, entry)
	}

	return &MatchingService{
		aliases:            aliases,
		reviews:            reviews,
		catalog:            entries,
		extractor:          extractor,
		autoAliasThreshold: autoAlias,
		suggestThreshold:   suggest,
		lowThreshold:       low,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
		newID:              uuid.NewString,
	}
}

// CatalogSize returns the number of materials the service matches against
func (s *MatchingService) CatalogSize() int {
	return len(s.catalog)
}

// Match resolves one scraped product name.
// Flow: normalize -> exact alias -> catalog scan -> confidence tier.
// An alias store failure is returned as an error; it is never treated as "no alias".
func (s *MatchingService) Match(ctx context.Context, scrapedName string) (*domain.MatchResult, error) {
	if strings.TrimSpace(scrapedName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	normalized := Normalize(scrapedName)
	info := s.extractor.Extract(scrapedName)

	alias, err := s.aliases.FindAliasByName(ctx, normalized)
	if err != nil && !errors.Is(err, domain.ErrAliasNotFound) {
		if errors.Is(err, domain.ErrAliasLookupFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAliasLookupFailed, err)
	}
	if err == nil && alias != nil {
		if s.enableDebugLogging {
			log.Printf("[MATCH] Alias hit: %q -> %s", normalized, alias.MaterialCode)
		}
		return &domain.MatchResult{
			MaterialCode:   alias.MaterialCode,
			Confidence:     alias.Confidence(),
			Method:         domain.MethodAliasExact,
			NeedsReview:    false,
			ExtractedBrand: info.Brand,
			ExtractedGrade: info.Grade,
		}, nil
	}

	if len(s.catalog) == 0 {
		return &domain.MatchResult{
			Confidence:     0,
			Method:         domain.MethodNone,
			NeedsReview:    true,
			ExtractedBrand: info.Brand,
			ExtractedGrade: info.Grade,
		}, nil
	}

	// Pure punctuation leaves nothing to compare or to key an alias on.
	if normalized == "" {
		return &domain.MatchResult{
			Confidence:  0,
			Method:      domain.MethodNoMatch,
			NeedsReview: true,
		}, nil
	}

	best, score, err := s.findBestMatch(ctx, normalized, info)
	if err != nil {
		return nil, err
	}

	result := &domain.MatchResult{
		MaterialCode:   best.material.ID,
		Confidence:     score,
		ExtractedBrand: info.Brand,
		ExtractedGrade: info.Grade,
	}

	switch {
	case score > s.autoAliasThreshold:
		result.Method = domain.MethodFuzzyAutoAlias
		s.persistAutoAlias(ctx, normalized, result)
	case score > s.suggestThreshold:
		result.Method = domain.MethodFuzzySuggested
	case score > s.lowThreshold:
		result.Method = domain.MethodFuzzyLow
	default:
		result.MaterialCode = ""
		result.Method = domain.MethodNoMatch
	}
	result.NeedsReview = result.Method.RequiresReview()

	if s.enableDebugLogging {
		log.Printf("[MATCH] %q -> %q (%s, confidence: %.3f)", scrapedName, best.material.ID, result.Method, score)
	}

	return result, nil
}

// findBestMatch scans the whole catalog; ties keep the first entry seen.
func (s *MatchingService) findBestMatch(ctx context.Context, normalized string, info CementInfo) (*catalogEntry, float64, error) {
	var best *catalogEntry
	highestScore := -1.0 // Initialize to -1 so any score (including 0) is considered

	for i := range s.catalog {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		entry := &s.catalog[i]
		score := s.scoreEntry(normalized, info, entry)

		if s.enableDebugLogging {
			log.Printf("[MATCH] Candidate: %q | Category: %s | Score: %.3f",
				entry.material.Name, entry.material.Category, score)
		}

		if score > highestScore {
			highestScore = score
			best = entry
		}
	}

	return best, highestScore, nil
}

// scoreEntry computes the category-aware similarity of a normalized scraped name against one catalog entry.
// Cement entries gain fixed bonuses for equal brands and for grades equal on their digits.
func (s *MatchingService) scoreEntry(normalized string, info CementInfo, entry *catalogEntry) float64 {
	score := Similarity(normalized, entry.normalized)
	if !entry.isCement {
		return score
	}

	if info.Brand != "" && entry.cement.Brand != "" && info.Brand == entry.cement.Brand {
		score += brandMatchBonus
	}

	// Only the digits are compared, so 32.5N and 32.5R count as equal grades.
	if info.Grade != "" && entry.cement.Grade != "" && digitsOnly(info.Grade) == digitsOnly(entry.cement.Grade) {
		score += gradeMatchBonus
	}

	if score > maxScore {
		score = maxScore
	}

	return score
}

// persistAutoAlias writes the alias row for a high-confidence match.
// Failure leaves the result usable; the next occurrence simply repeats the fuzzy scan.
func (s *MatchingService) persistAutoAlias(ctx context.Context, normalized string, result *domain.MatchResult) {
	confidence := result.Confidence
	alias := domain.MaterialAlias{
		ID:              s.newID(),
		AliasName:       normalized,
		MaterialCode:    result.MaterialCode,
		ConfidenceScore: &confidence,
		CreatedAt:       s.now().UTC(),
	}

	err := s.aliases.InsertAlias(ctx, alias)
	switch {
	case err == nil:
		log.Printf("[ALIAS] Created alias %q -> %s (confidence: %.3f)", normalized, result.MaterialCode, confidence)
	case errors.Is(err, domain.ErrAliasExists):
		// A concurrent match already stored it, which is the state we wanted.
		if s.enableDebugLogging {
			log.Printf("[ALIAS] Alias %q already exists", normalized)
		}
	default:
		log.Printf("[ALIAS] WARNING: failed to persist alias %q -> %s: %v", normalized, result.MaterialCode, err)
		result.Warning = fmt.Sprintf("auto-alias not persisted: %v", err)
	}
}

// MatchBatch matches each item in order. An item that fails carries its error
// and is flagged for review; it never aborts the rest of the batch.
// Only context cancellation stops the batch early.
func (s *MatchingService) MatchBatch(ctx context.Context, items []domain.BatchItem) ([]domain.BatchMatchResult, error) {
	results := make([]domain.BatchMatchResult, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		entry := domain.BatchMatchResult{
			OriginalName: item.Name,
			Price:        item.Price,
		}

		match, err := s.Match(ctx, item.Name)
		if err != nil {
			log.Printf("[MATCH] Batch item %q failed: %v", item.Name, err)
			entry.Method = domain.MethodNoMatch
			entry.NeedsReview = true
			entry.Error = err.Error()
		} else {
			entry.MatchResult = *match
		}

		results = append(results, entry)
	}

	return results, nil
}

// AddToPendingReview queues a match for human review. Results that do not
// need review are ignored. Store errors propagate without retry.
func (s *MatchingService) AddToPendingReview(
	ctx context.Context,
	input domain.PendingReviewInput,
	result *domain.MatchResult,
) error {
	if result == nil {
		return domain.ErrInvalidRequest
	}
	if !result.NeedsReview {
		return nil
	}

	review := domain.PendingReview{
		ID:                    s.newID(),
		ScrapedName:           input.ScrapedName,
		ScrapedPrice:          input.ScrapedPrice,
		SourceURL:             input.SourceURL,
		ScraperConfigID:       input.ScraperConfigID,
		SuggestedMaterialCode: result.MaterialCode,
		Confidence:            result.Confidence,
		MatchMethod:           result.Method,
		CreatedAt:             s.now().UTC(),
	}

	if err := s.reviews.InsertPendingReview(ctx, review); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrReviewInsertFailed, err)
	}

	return nil
}

// ListPendingReviews returns the most recent queued reviews
func (s *MatchingService) ListPendingReviews(ctx context.Context, limit int) ([]domain.PendingReview, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.reviews.ListPendingReviews(ctx, limit)
}
