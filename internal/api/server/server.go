package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/api/middleware"
	"github.com/feral-file/ff-provenance/internal/api/rest"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/notification"
	"github.com/feral-file/ff-provenance/internal/provenance"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Auth           middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config        Config
	provenance    provenance.Service
	notifications notification.Service
	webhooks      webhook.Registry
	httpServer    *http.Server
}

// New creates a new API server
func New(cfg Config, prov provenance.Service, notifications notification.Service, webhooks webhook.Registry) *Server {
	return &Server{
		config:        cfg,
		provenance:    prov,
		notifications: notifications,
		webhooks:      webhooks,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	// Setup REST routes
	restHandler := rest.NewHandler(s.config.Debug, s.provenance, s.notifications, s.webhooks)
	rest.SetupRoutes(router, restHandler, middleware.NewAuthenticator(s.config.Auth))

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
