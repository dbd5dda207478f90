// Package ui is the HTTP surface of the dashboard: a gin server exposing
// the three page endpoints plus export and row write-back.
package ui

import (
	"github.com/gin-gonic/gin"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/app"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

// Server serves the dashboard API.
type Server struct {
	router       *gin.Engine
	pages        *app.PageService
	uploads      ports.UploadServicePort
	admin        ports.UploadAdminPort
	trackerAdmin ports.TrackerAdminPort
	log          *internal.Logger
}

// NewServer creates the server and registers routes. admin and
// trackerAdmin are nil when a remote upload service owns ingestion; the
// write endpoints are only registered when they are served in-process.
func NewServer(cfg config.ServerConfig, pages *app.PageService, uploadSvc ports.UploadServicePort, admin ports.UploadAdminPort, trackerAdmin ports.TrackerAdminPort) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	s := &Server{
		router:       gin.Default(),
		pages:        pages,
		uploads:      uploadSvc,
		admin:        admin,
		trackerAdmin: trackerAdmin,
		log:          internal.NewDefaultLogger("Server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api", SessionMiddleware())
	{
		api.GET("/device-status", s.handleDeviceStatus)
		api.GET("/device-status/export", s.handleDeviceStatusExport)
		api.GET("/offline-sites", s.handleOfflineSites)
		api.GET("/rtu-tracker", s.handleRtuTracker)
		api.PUT("/uploads/:fileId/rows", s.handleSaveRows)

		if s.admin != nil {
			api.POST("/uploads", s.handleUploadFile)
			api.DELETE("/uploads/:fileId", s.handleDeleteUpload)
		}
		if s.trackerAdmin != nil {
			api.PUT("/tasks", s.handleSaveTask)
		}
	}
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
