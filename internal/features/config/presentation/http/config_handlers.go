package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krishi-sahayak/backend/internal/features/config/domain"
)

// CatalogHandler exposes the active advisory catalog.
type CatalogHandler struct {
	catalog *domain.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *domain.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

// GetCatalogHandler returns the rules in match order together with the price table.
func (h *CatalogHandler) GetCatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}
