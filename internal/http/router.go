package http

import (
	"github.com/gin-gonic/gin"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

// RouterConfig carries the router's dependencies. The database is optional
// and only feeds the health check; the update server itself never touches
// a client store.
type RouterConfig struct {
	DB            *database.Database
	ManifestStore *updates.Store
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.DB, cfg.Version)
	router.GET("/health", health.Status)

	updatesController := NewUpdatesController(cfg.ManifestStore)
	api := router.Group("/api")
	api.GET("/updates", updatesController.Check)

	return router
}
