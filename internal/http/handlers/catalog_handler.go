// README: Read-only catalog listings used to populate the calculator form.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/catalog"
)

type CatalogReader interface {
	ListTours(ctx context.Context) ([]catalog.Tour, error)
	ListVehicles(ctx context.Context) ([]catalog.Vehicle, error)
	ListHotels(ctx context.Context) ([]catalog.Hotel, error)
	ListGuides(ctx context.Context) ([]catalog.Guide, error)
}

type CatalogHandler struct {
	catalog CatalogReader
}

func NewCatalogHandler(r CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: r}
}

func list[T any](c *gin.Context, fetch func(context.Context) ([]T, error)) {
	items, err := fetch(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(c, http.StatusOK, items)
}

func (h *CatalogHandler) Tours(c *gin.Context)    { list(c, h.catalog.ListTours) }
func (h *CatalogHandler) Vehicles(c *gin.Context) { list(c, h.catalog.ListVehicles) }
func (h *CatalogHandler) Hotels(c *gin.Context)   { list(c, h.catalog.ListHotels) }
func (h *CatalogHandler) Guides(c *gin.Context)   { list(c, h.catalog.ListGuides) }
