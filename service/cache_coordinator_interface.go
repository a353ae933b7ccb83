package service

import (
	"context"

	"armario-mascota-mockups/models"
)

// CacheCoordinatorInterface defines the contract for cache keys, lookups and busts
type CacheCoordinatorInterface interface {
	CompositeCacheKey(templateID, designNumber, ext string) string
	IntermediateCacheKey(designNumber string, productType models.ProductType, placementVersion string) string
	DesignAssetCacheKey(designNumber string) string
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, data []byte) error
	Invalidate(ctx context.Context, templateID, designNumber string) models.BustResult
	InvalidateAll(ctx context.Context, designNumber string) models.BustResult
}
