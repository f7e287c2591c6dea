package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"comprice/server/config"
	"comprice/server/internal/database"
	"comprice/server/internal/models"
	"comprice/server/internal/queue"
)

func setupRouter(t *testing.T) (*gin.Engine, *queue.ListingQueue) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig()
	assert.NoError(t, err)

	db, err := database.NewDatabase(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, db.RunMigrations())

	q := queue.NewListingQueue(10, logrus.New())

	router := gin.New()
	SetupRoutes(router, db, cfg, q, logrus.New())
	return router, q
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]interface{}{
		"target": map[string]interface{}{
			"price":      22000000,
			"total_area": 100,
		},
		"comparables": []map[string]interface{}{
			{"url": "a", "total_area": 100, "price_per_sqm": 195000},
			{"url": "b", "total_area": 100, "price_per_sqm": 200000},
			{"url": "c", "total_area": 100, "price_per_sqm": 205000},
		},
	}

	w := postJSON(t, router, "/api/analyze", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.InDelta(t, 10.0, result.FairPrice.OverpricingPercent, 1e-6)
}

func TestAnalyzeEndpoint_InsufficientDataIsNotAnHTTPError(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]interface{}{
		"target": map[string]interface{}{
			"price":      22000000,
			"total_area": 100,
		},
	}

	w := postJSON(t, router, "/api/analyze", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.StatusInsufficientData, result.Status)
	assert.NotEmpty(t, result.Suggestions)
}

func TestAnalyzeEndpoint_ManualExclusion(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]interface{}{
		"target": map[string]interface{}{
			"price":      22000000,
			"total_area": 100,
		},
		"comparables": []map[string]interface{}{
			{"id": 1, "url": "a", "total_area": 100, "price_per_sqm": 200000},
			{"id": 2, "url": "b", "total_area": 100, "price_per_sqm": 400000},
		},
		"exclude_ids": []int64{2},
	}

	w := postJSON(t, router, "/api/analyze", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Statistics.Count)
	assert.Equal(t, 200000.0, result.Statistics.Median)
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]interface{}{
		"target": map[string]interface{}{
			"price":      26000000,
			"total_area": 100,
		},
		"comparables": []map[string]interface{}{
			{"url": "a", "total_area": 100, "price_per_sqm": 195000},
			{"url": "b", "total_area": 100, "price_per_sqm": 200000},
			{"url": "c", "total_area": 100, "price_per_sqm": 205000},
		},
	}

	w := postJSON(t, router, "/api/recommendations", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status          models.AnalysisStatus   `json:"status"`
		Recommendations []models.Recommendation `json:"recommendations"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.Recommendations)
	// 30% overpriced: the pricing rule leads with critical priority
	assert.Equal(t, "critical", resp.Recommendations[0].Priority.String())
}

func TestIngestBatchEndpoint(t *testing.T) {
	router, q := setupRouter(t)

	body := map[string]interface{}{
		"listings": []map[string]interface{}{
			{"url": "a", "total_area": 50, "price_per_sqm": 200000},
		},
	}

	w := postJSON(t, router, "/api/listings/batch", body)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, q.Len())
}

func TestIngestBatchEndpoint_BadRequest(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(t, router, "/api/listings/batch", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
