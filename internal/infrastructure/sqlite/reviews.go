package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/boqmatch/backend/internal/domain"
)

// InsertPendingReview appends a row to the review queue.
func (s *Store) InsertPendingReview(ctx context.Context, review domain.PendingReview) error {
	createdAt := review.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO pending_reviews (
            id, scraped_name, scraped_price, source_url, scraper_config_id,
            suggested_material_code, confidence, match_method, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.ScrapedName,
		nullableFloat(review.ScrapedPrice),
		nullableString(review.SourceURL),
		nullableString(review.ScraperConfigID),
		nullableString(review.SuggestedMaterialCode),
		review.Confidence,
		string(review.MatchMethod),
		createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert pending review: %w", err)
	}
	return nil
}

// ListPendingReviews returns up to limit reviews, newest first.
func (s *Store) ListPendingReviews(ctx context.Context, limit int) ([]domain.PendingReview, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, scraped_name, scraped_price, source_url, scraper_config_id,
            suggested_material_code, confidence, match_method, created_at
        FROM pending_reviews ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.PendingReview
	for rows.Next() {
		var (
			r          domain.PendingReview
			price      sql.NullFloat64
			sourceURL  sql.NullString
			configID   sql.NullString
			suggested  sql.NullString
			method     string
			createdRaw string
		)
		if err := rows.Scan(&r.ID, &r.ScrapedName, &price, &sourceURL, &configID, &suggested, &r.Confidence, &method, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan pending review: %w", err)
		}
		r.ScrapedPrice = floatFromNull(price)
		r.SourceURL = sourceURL.String
		r.ScraperConfigID = configID.String
		r.SuggestedMaterialCode = suggested.String
		r.MatchMethod = domain.MatchMethod(method)
		if ts, err := time.Parse(timestampLayout, createdRaw); err == nil {
			r.CreatedAt = ts
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
