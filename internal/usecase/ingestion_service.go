package usecase

import (
	"context"
	"log"

	"github.com/boqmatch/backend/internal/domain"
)

// IngestRequest is one scraper run's worth of product rows
type IngestRequest struct {
	SourceURL       string             `json:"sourceUrl,omitempty"`
	ScraperConfigID string             `json:"scraperConfigId,omitempty"`
	Items           []domain.BatchItem `json:"items" binding:"required"`
}

// IngestItemResult is a batch result plus whether it landed in the review queue
type IngestItemResult struct {
	domain.BatchMatchResult
	Queued     bool   `json:"queued"`
	QueueError string `json:"queueError,omitempty"`
}

// IngestSummary reports what happened to a scraper run
type IngestSummary struct {
	Results     []IngestItemResult `json:"results"`
	Total       int                `json:"total"`
	AliasHits   int                `json:"aliasHits"`
	AutoAliased int                `json:"autoAliased"`
	Queued      int                `json:"queued"`
	Failed      int                `json:"failed"`
}

// IngestionService feeds scraped rows through the matcher and into the review queue
type IngestionService struct {
	matcher *MatchingService
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(matcher *MatchingService) *IngestionService {
	return &IngestionService{matcher: matcher}
}

// Ingest matches every item and queues the ones that need review.
// Items whose match failed are counted but not queued, so infrastructure
// errors never show up as "no match" rows for reviewers.
func (s *IngestionService) Ingest(ctx context.Context, request *IngestRequest) (*IngestSummary, error) {
	if request == nil || len(request.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	batch, err := s.matcher.MatchBatch(ctx, request.Items)
	if err != nil {
		return nil, err
	}

	summary := &IngestSummary{
		Results: make([]IngestItemResult, 0, len(batch)),
		Total:   len(batch),
	}

	for _, item := range batch {
		entry := IngestItemResult{BatchMatchResult: item}

		switch {
		case item.Error != "":
			summary.Failed++
		case item.Method == domain.MethodAliasExact:
			summary.AliasHits++
		case item.Method == domain.MethodFuzzyAutoAlias:
			summary.AutoAliased++
		case item.NeedsReview:
			input := domain.PendingReviewInput{
				ScrapedName:     item.OriginalName,
				ScrapedPrice:    item.Price,
				SourceURL:       request.SourceURL,
				ScraperConfigID: request.ScraperConfigID,
			}
			match := item.MatchResult
			if err := s.matcher.AddToPendingReview(ctx, input, &match); err != nil {
				log.Printf("[INGEST] Failed to queue %q for review: %v", item.OriginalName, err)
				entry.QueueError = err.Error()
				summary.Failed++
			} else {
				entry.Queued = true
				summary.Queued++
			}
		}

		summary.Results = append(summary.Results, entry)
	}

	log.Printf("[INGEST] %s: total=%d alias=%d auto=%d queued=%d failed=%d",
		request.SourceURL, summary.Total, summary.AliasHits, summary.AutoAliased, summary.Queued, summary.Failed)

	return summary, nil
}
