package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/analyzer"
	"comprice/server/internal/database"
	"comprice/server/internal/models"
	"comprice/server/internal/normalizer"
	"comprice/server/internal/queue"
)

type Handler struct {
	db         *database.Database
	analyzer   *analyzer.Analyzer
	normalizer *normalizer.Normalizer
	queue      *queue.ListingQueue
	logger     *logrus.Logger
}

// AnalyzeRequest is one valuation request: the target plus either inline
// comparables or a selector over the stored listing set. Manual toggles
// are applied to the list before the engine runs.
type AnalyzeRequest struct {
	Target      models.TargetProperty   `json:"target" binding:"required"`
	Comparables []normalizer.RawListing `json:"comparables"`
	UseStored   bool                    `json:"use_stored"`
	ExcludeIDs  []int64                 `json:"exclude_ids"`
	IncludeIDs  []int64                 `json:"include_ids"`
}

// BatchRequest is a scraper delivery of raw listings.
type BatchRequest struct {
	Listings []normalizer.RawListing `json:"listings" binding:"required"`
}

func NewHandler(db *database.Database, cfg *config.Config, q *queue.ListingQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:         db,
		analyzer:   analyzer.NewAnalyzer(cfg, logger),
		normalizer: normalizer.NewNormalizer(logger),
		queue:      q,
		logger:     logger,
	}
}

// Analyze runs one valuation. The response is always a complete
// AnalysisResult; insufficient data is a status on the body, not an HTTP
// error.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	comps, ok := h.resolveComparables(c, &req)
	if !ok {
		return
	}

	analyzer.ApplyToggles(comps, req.ExcludeIDs, req.IncludeIDs)
	c.JSON(http.StatusOK, h.analyzer.Analyze(&req.Target, comps))
}

// Recommendations runs the same pipeline but returns only the
// recommendation list, for the lightweight UI.
func (h *Handler) Recommendations(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	comps, ok := h.resolveComparables(c, &req)
	if !ok {
		return
	}

	analyzer.ApplyToggles(comps, req.ExcludeIDs, req.IncludeIDs)
	result := h.analyzer.Analyze(&req.Target, comps)
	c.JSON(http.StatusOK, gin.H{
		"status":          result.Status,
		"recommendations": result.Recommendations,
	})
}

func (h *Handler) resolveComparables(c *gin.Context, req *AnalyzeRequest) ([]models.ComparableProperty, bool) {
	raws := req.Comparables
	if req.UseStored {
		complexID := ""
		if req.Target.ComplexID != nil {
			complexID = *req.Target.ComplexID
		}
		stored, err := h.db.GetListings(req.Target.City, complexID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load stored listings")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stored listings"})
			return nil, false
		}
		raws = append(raws, stored...)
	}
	return h.normalizer.NormalizeAll(raws), true
}

// GetListings returns the stored comparables, filters optional.
func (h *Handler) GetListings(c *gin.Context) {
	city := c.Query("city")
	complexID := c.Query("complex_id")

	listings, err := h.db.GetListings(city, complexID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// IngestBatch accepts a scraper delivery and queues it for processing.
func (h *Handler) IngestBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse batch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if err := h.queue.Push(req.Listings); err != nil {
		h.logger.WithError(err).Error("Failed to queue batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingest queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "queued",
		"listings": len(req.Listings),
	})
}

// Health reports liveness and the stored listing count.
func (h *Handler) Health(c *gin.Context) {
	count, err := h.db.CountListings("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"listings": count,
	})
}
