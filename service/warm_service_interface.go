package service

import (
	"context"

	"armario-mascota-mockups/models"
)

// WarmServiceInterface defines the contract for pre-generating a design's mockups
type WarmServiceInterface interface {
	WarmDesign(ctx context.Context, designNumber, ext string) (models.WarmResult, error)
}
