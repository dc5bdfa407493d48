package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"creditsvc/config"
	"creditsvc/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// Server wraps the gin engine and the underlying http.Server
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	health HealthChecker
}

// NewServer builds the HTTP server with all routes registered
func NewServer(cfg *config.Config, profiles service.ProfileService, credits service.CreditService, health HealthChecker) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine: engine,
		srv: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: engine,
		},
		health: health,
	}

	handlers := NewHandlers(cfg, profiles, credits)
	s.registerRoutes(handlers)

	return s
}

func (s *Server) registerRoutes(h *Handlers) {
	s.engine.GET("/healthz", s.healthz)

	v1 := s.engine.Group("/api/v1")

	profile := v1.Group("/profile")
	profile.GET("/:anonId", h.GetProfile)
	profile.PATCH("/:anonId", h.UpdateProfile)
	profile.POST("/:anonId/link", h.LinkProfile)

	credits := v1.Group("/credits")
	credits.GET("/:anonId", h.GetCredits)
	credits.POST("/:anonId/init", h.InitCredits)
	credits.POST("/:anonId/daily-bonus", h.ClaimDailyBonus)
	credits.POST("/:anonId/spend", h.SpendCredits)
	credits.POST("/:anonId/adjust", h.AdjustCredits)
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.health.Healthy(ctx); err != nil {
		log.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start blocks serving HTTP until Shutdown is called or the listener fails
func (s *Server) Start() error {
	log.WithField("addr", s.srv.Addr).Info("HTTP server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Handler exposes the routing tree for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs one structured line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.WithFields(fields).Error("Request completed")
		} else {
			log.WithFields(fields).Info("Request completed")
		}
	}
}
