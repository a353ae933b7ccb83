package service

import "armario-mascota-mockups/models"

// PlacementRegistryInterface defines the contract for placement lookups
type PlacementRegistryInterface interface {
	Lookup(productType models.ProductType) models.PlacementSpec
	Canvas() models.Canvas
	Version() string
	ProductTypes() []models.ProductType
}
