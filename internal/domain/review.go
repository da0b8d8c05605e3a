package domain

import "time"

// PendingReviewInput carries the scrape context that accompanies a match result into the review queue
type PendingReviewInput struct {
	ScrapedName     string   `json:"scrapedName" binding:"required"`
	ScrapedPrice    *float64 `json:"scrapedPrice,omitempty"`
	SourceURL       string   `json:"sourceUrl,omitempty"`
	ScraperConfigID string   `json:"scraperConfigId,omitempty"`
}

// PendingReview is a queued match awaiting a human decision
type PendingReview struct {
	ID                    string      `json:"id"`
	ScrapedName           string      `json:"scrapedName"`
	ScrapedPrice          *float64    `json:"scrapedPrice,omitempty"`
	SourceURL             string      `json:"sourceUrl,omitempty"`
	ScraperConfigID       string      `json:"scraperConfigId,omitempty"`
	SuggestedMaterialCode string      `json:"suggestedMaterialCode,omitempty"`
	Confidence            float64     `json:"confidence"`
	MatchMethod           MatchMethod `json:"matchMethod"`
	CreatedAt             time.Time   `json:"createdAt"`
}
