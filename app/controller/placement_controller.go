package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/service"
)

// PlacementController exposes the active placement table
type PlacementController struct {
	registry service.PlacementRegistryInterface
}

// NewPlacementController creates a new PlacementController
func NewPlacementController(registry service.PlacementRegistryInterface) *PlacementController {
	return &PlacementController{registry: registry}
}

type placementEntry struct {
	ProductType string               `json:"productType"`
	Placement   models.PlacementSpec `json:"placement"`
}

// GetPlacements handles GET /admin/placements
func (c *PlacementController) GetPlacements(ctx *gin.Context) {
	types := c.registry.ProductTypes()
	entries := make([]placementEntry, 0, len(types))
	for _, pt := range types {
		entries = append(entries, placementEntry{
			ProductType: pt.String(),
			Placement:   c.registry.Lookup(pt),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"version":    c.registry.Version(),
		"canvas":     c.registry.Canvas(),
		"placements": entries,
	})
}
