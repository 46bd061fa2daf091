package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/config"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

// NewRouter wires every route onto a gin engine
func NewRouter(h *Handler, health *Health, feed *FeedSocket) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// Health endpoints for K8s probes
	r.GET("/health", health.handleHealth)
	r.GET("/ready", health.handleReadiness)
	r.GET("/healthz", health.handleHealth)
	r.GET("/readyz", health.handleReadiness)

	r.GET("/ws/feed", feed.handle)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/companies", h.listCompanies)
		v1.GET("/companies/:id/series", h.companySeries)
		v1.GET("/companies/:id/stats", h.companyStats)
		v1.GET("/companies/:id/news", h.companyNews)

		v1.GET("/sectors", h.listSectors)
		v1.GET("/news", h.recentNews)

		v1.GET("/market/overview", h.marketOverview)
		v1.GET("/market/movers", h.marketMovers)

		v1.GET("/preferences", h.getPreferences)
		v1.PUT("/preferences", h.putPreferences)
		v1.POST("/preferences/watchlist/:id", h.toggleWatchlist)
	}

	return r
}

// Server runs the HTTP API
type Server struct {
	server *http.Server
	feed   *FeedSocket
}

// NewServer creates API server
func NewServer(cfg *config.ServerConfig, router *gin.Engine, feed *FeedSocket) *Server {
	return &Server{
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
		feed: feed,
	}
}

// Start serves until Stop is called
func (s *Server) Start() error {
	logger.Info("api server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop gracefully stops the server and disconnects feed clients
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping api server...")
	s.feed.Close()
	return s.server.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("http request failed", fields...)
			return
		}
		logger.Debug("http request", fields...)
	}
}
