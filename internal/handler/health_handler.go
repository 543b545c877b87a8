package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"crossquote/internal/service"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	catalog service.CatalogService
	db      Pinger
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs without a database.
func NewHealthHandler(catalog service.CatalogService, db Pinger) *HealthHandler {
	return &HealthHandler{catalog: catalog, db: db}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
			return
		}
	}
	stats, err := h.catalog.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "catalog not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog_version": stats.Version})
}
