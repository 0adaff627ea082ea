// Package api provides the REST API server.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/pkg/config"
)

// Portfolio is the analysis surface the server exposes.
type Portfolio interface {
	AnalyzePortfolio(ctx context.Context, assets []string, maxArticlesPerAsset, timeFilterDays int) (*models.AnalysisResult, error)
	TestConnectivity(ctx context.Context) map[string]bool
}

// Server represents the API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	tracker    Portfolio
	config     *config.Config
	logger     zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(tracker Portfolio, cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		config:  cfg,
		logger:  logger.With().Str("component", "api").Logger(),
	}

	s.setupRouter()
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// setupRouter sets up the Gin router with all routes.
func (s *Server) setupRouter() {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(s.logger))
	r.Use(corsMiddleware())

	// API v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/connectivity", s.handleConnectivity)
		api.GET("/assets/supported", s.handleSupportedAssets)
		api.POST("/analyze", s.handleAnalyze)
	}

	s.router = r
}

// Router returns the Gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run listens on addr and serves until Shutdown is called.
func (s *Server) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called. A server closed
// by Shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("API server listening")
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("API server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// requestIDMiddleware propagates or assigns an X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// loggingMiddleware logs every request once it completes.
func loggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
