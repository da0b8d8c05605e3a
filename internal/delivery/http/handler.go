package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/usecase"
)

const (
	maxReviewListLimit = 500
	healthPingTimeout  = 2 * time.Second
)

// DatabasePinger reports whether the backing store answers
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher   *usecase.MatchingService
	ingestion *usecase.IngestionService
	db        DatabasePinger
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints answer 503.
// A nil db leaves the database out of the health report.
func NewHandler(matcher *usecase.MatchingService, ingestion *usecase.IngestionService, db DatabasePinger) *Handler {
	return &Handler{
		matcher:   matcher,
		ingestion: ingestion,
		db:        db,
	}
}

// MatchRequest is the body of POST /api/v1/materials/match
type MatchRequest struct {
	ScrapedName string `json:"scrapedName" binding:"required"`
}

// BatchRequest is the body of POST /api/v1/materials/match/batch
type BatchRequest struct {
	Items []domain.BatchItem `json:"items" binding:"required,min=1"`
}

// ReviewRequest is the body of POST /api/v1/reviews
type ReviewRequest struct {
	domain.PendingReviewInput
	Match *domain.MatchResult `json:"match" binding:"required"`
}

// HealthCheck returns the health status of the API.
// An unreachable database turns the response into 503 "degraded".
func (h *Handler) HealthCheck(c *gin.Context) {
	catalogSize := 0
	if h.matcher != nil {
		catalogSize = h.matcher.CatalogSize()
	}

	status := http.StatusOK
	body := gin.H{
		"status":      "healthy",
		"service":     "boqmatch-backend",
		"version":     "1.0.0",
		"catalogSize": catalogSize,
		"database":    "not configured",
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			log.Printf("[HTTP] Health check: database ping failed: %v", err)
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unavailable"
		} else {
			body["database"] = "ok"
		}
	}

	c.JSON(status, body)
}

// MatchMaterial matches a single scraped product name against the catalog
func (h *Handler) MatchMaterial(c *gin.Context) {
	if h.matcher == nil {
		notConfigured(c)
		return
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.matcher.Match(c.Request.Context(), req.ScrapedName)
	if err != nil {
		respondError(c, "match", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MatchBatch matches a list of scraped products in input order
func (h *Handler) MatchBatch(c *gin.Context) {
	if h.matcher == nil {
		notConfigured(c)
		return
	}

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	results, err := h.matcher.MatchBatch(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, "batch match", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// Ingest matches a scraper run and queues everything that needs review
func (h *Handler) Ingest(c *gin.Context) {
	if h.ingestion == nil {
		notConfigured(c)
		return
	}

	var req usecase.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	summary, err := h.ingestion.Ingest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "ingest", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SubmitReview queues a match result for human review
func (h *Handler) SubmitReview(c *gin.Context) {
	if h.matcher == nil {
		notConfigured(c)
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.matcher.AddToPendingReview(c.Request.Context(), req.PendingReviewInput, req.Match); err != nil {
		respondError(c, "pending review", err)
		return
	}

	if !req.Match.NeedsReview {
		c.JSON(http.StatusOK, gin.H{"queued": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"queued": true})
}

// ListReviews returns the newest pending reviews
func (h *Handler) ListReviews(c *gin.Context) {
	if h.matcher == nil {
		notConfigured(c)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxReviewListLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be an integer between 1 and " + strconv.Itoa(maxReviewListLimit),
			})
			return
		}
		limit = parsed
	}

	reviews, err := h.matcher.ListPendingReviews(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "list reviews", err)
		return
	}
	if reviews == nil {
		reviews = []domain.PendingReview{}
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

func notConfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Matching service not configured",
	})
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAliasLookupFailed):
		log.Printf("[HTTP] %s failed: %v", op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Alias store temporarily unavailable"})
	case errors.Is(err, domain.ErrReviewInsertFailed):
		log.Printf("[HTTP] %s failed: %v", op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Review queue temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		log.Printf("[HTTP] %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
