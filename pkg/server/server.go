// Package server exposes the retrieval service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphrecall/recall"
	"github.com/graphrecall/recall/pkg/config"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/server/handlers"
)

// Server represents the HTTP server.
type Server struct {
	config   *config.Config
	defaults *search.Config
	router   *gin.Engine
	service  recall.Service
	server   *http.Server
}

// New creates a new server instance. defaults is the search configuration
// applied to requests without overrides; nil selects package defaults.
func New(cfg *config.Config, service recall.Service, defaults *search.Config) *Server {
	return &Server{
		config:   cfg,
		service:  service,
		defaults: defaults,
	}
}

// Setup sets up the server routes and middleware.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// Router returns the configured gin engine. Setup must have been called.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler()
	retrieveHandler := handlers.NewRetrieveHandler(s.service, s.defaults)

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/search", retrieveHandler.Search)
		v1.POST("/memory", retrieveHandler.Memory)
		v1.GET("/episodes", retrieveHandler.GetEpisodes)
	}
}

// Start starts the server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
