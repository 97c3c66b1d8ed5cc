// Package api exposes the risk-assessment services over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
	"github.com/medguard-server/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	cfg    *domain.Config
	router *gin.Engine
	server *http.Server
	log    *logrus.Logger

	store    domain.KnowledgeStore
	assessor *service.RiskAssessor
	profiles *service.ProfileService
	checker  *service.InteractionChecker
	monitor  *service.AMRMonitorService
	timeline *service.TimelineService
	insights *service.InsightService
}

// NewServer creates a new HTTP server instance wired to the given
// knowledge store and profile cache.
func NewServer(cfg *domain.Config, store domain.KnowledgeStore, profileCache domain.ProfileCache, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	if cfg.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(cfg.RateLimit))
	}

	server := &Server{
		cfg:      cfg,
		router:   router,
		log:      logger,
		store:    store,
		assessor: service.NewRiskAssessor(store, logger),
		profiles: service.NewProfileService(store, profileCache, logger),
		checker:  service.NewInteractionChecker(store, logger),
		monitor:  service.NewAMRMonitorService(store, logger),
		timeline: service.NewTimelineService(store, logger),
		insights: service.NewInsightService(store, logger),
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/drugs", s.handleListDrugs)
		v1.GET("/drugs/:id", s.handleGetDrug)
		v1.POST("/risk", s.handleAssessRisk)
		v1.POST("/interactions", s.handleCheckInteractions)
		v1.POST("/amr", s.handleAMRCheck)
		v1.POST("/explain", s.handleExplain)
		v1.POST("/medicine", s.handleConfirmMedicine)
		v1.GET("/timeline", s.handleTimeline)
		v1.GET("/insights", s.handleInsights)
	}
}
