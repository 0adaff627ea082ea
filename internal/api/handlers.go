package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/news-impact-tracker/internal/export"
	"github.com/user/news-impact-tracker/internal/tracker"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// handleConnectivity reports the status of each subsystem.
func (s *Server) handleConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.TestConnectivity(c.Request.Context()))
}

// handleSupportedAssets lists example symbols per category.
func (s *Server) handleSupportedAssets(c *gin.Context) {
	c.JSON(http.StatusOK, tracker.SupportedAssets())
}

// AnalyzeRequest represents a portfolio analysis request.
type AnalyzeRequest struct {
	Assets              []string `json:"assets"`
	MaxArticlesPerAsset int      `json:"max_articles_per_asset"`
	TimeFilterDays      int      `json:"time_filter_days"`
}

// handleAnalyze runs a portfolio analysis. ?format=csv returns the news
// entries as CSV instead of the JSON result.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TimeFilterDays == 0 {
		req.TimeFilterDays = 1
	}

	result, err := s.tracker.AnalyzePortfolio(c.Request.Context(), req.Assets, req.MaxArticlesPerAsset, req.TimeFilterDays)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("analysis request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed, please try again later"})
		return
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, result.NewsEntries); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="news_entries.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, result)
}
