package handler

import (
	"github.com/gin-gonic/gin"

	"crossquote/internal/service"
)

// CatalogHandler handles catalog administration endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Stats handles GET /api/v1/admin/catalog
// @Summary      Catalog status
// @Description  Returns the loaded catalog version, source and table sizes
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse{data=domain.CatalogStats}
// @Failure      503 {object} APIResponse
// @Router       /admin/catalog [get]
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats()
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// Refresh handles POST /api/v1/admin/catalog/refresh
// @Summary      Reload the catalog
// @Description  Reloads the lookup tables from the configured source. On failure the previous catalog stays live.
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse{data=domain.CatalogStats}
// @Failure      503 {object} APIResponse
// @Router       /admin/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *gin.Context) {
	stats, err := h.catalogService.Refresh(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
