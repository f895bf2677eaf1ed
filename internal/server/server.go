// Package server exposes the catalog engine and saved set over HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pgbuddy/internal/catalog"
	"pgbuddy/internal/config"
	"pgbuddy/internal/storage"
)

// Server is the HTTP API for the room catalog.
type Server struct {
	store   storage.Storage
	catalog *catalog.Catalog
	log     *slog.Logger
	router  *gin.Engine
}

// New builds the API router.
func New(cfg *config.Config, store storage.Storage, cat *catalog.Catalog, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		catalog: cat,
		log:     log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Device-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/rooms", s.handleListRooms)
	api.GET("/rooms/featured", s.handleFeaturedRooms)
	api.GET("/rooms/:id", s.handleGetRoom)
	api.GET("/saved", s.handleListSaved)
	api.POST("/saved/:id/toggle", s.handleToggleSaved)

	s.router = router
	return s
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
