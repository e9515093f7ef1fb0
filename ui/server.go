// Package ui exposes the cleaning pipeline over HTTP: session lifecycle,
// operator dispatch, autopilot runs, diagnostics and export. The engine owns
// none of this; the API is a thin shell over app.CleaningService.
package ui

import (
	"net/http"

	"scour/app"
	"scour/internal"
	"scour/internal/config"

	"github.com/gin-gonic/gin"
)

// Server is the API server for the cleaning pipeline.
type Server struct {
	router  *gin.Engine
	service *app.CleaningService
	cfg     *config.Config
	log     *internal.Logger
}

// NewServer wires routes around the cleaning service.
func NewServer(service *app.CleaningService, cfg *config.Config, log *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:  gin.New(),
		service: service,
		cfg:     cfg,
		log:     log,
	}
	s.router.Use(gin.Recovery(), s.requestLog())
	s.router.MaxMultipartMemory = cfg.Limits.MaxUploadBytes
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions", s.handleListSessions)
		api.GET("/sessions/:id", s.handleGetSession)
		api.DELETE("/sessions/:id", s.handleDeleteSession)

		api.GET("/sessions/:id/columns", s.handleColumns)
		api.GET("/sessions/:id/columns/:column/stats", s.handleColumnStats)
		api.GET("/sessions/:id/correlation", s.handleCorrelation)
		api.GET("/sessions/:id/preview", s.handlePreview)

		api.POST("/sessions/:id/apply", s.handleApply)
		api.POST("/sessions/:id/autopilot", s.handleAutopilot)
		api.POST("/sessions/:id/reset", s.handleReset)

		api.GET("/sessions/:id/journal", s.handleJournal)
		api.GET("/sessions/:id/export", s.handleExport)
	}
}

// Handler exposes the router for HTTP serving and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Info("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
