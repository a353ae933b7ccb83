package service

import (
	"context"

	"armario-mascota-mockups/models"
)

// MockupServiceInterface defines the contract exposed to the serving layer
type MockupServiceInterface interface {
	// Generate always returns a valid image; failures yield the fallback image
	Generate(ctx context.Context, request string) models.CompositeResult
	// BustTemplate removes the request template's composites of the design in every output
	// format plus the design asset and intermediates of its design number (single-template scope)
	BustTemplate(ctx context.Context, request string) (models.BustResult, error)
	// BustDesign removes every artifact of designNumber across all templates (all-templates scope)
	BustDesign(ctx context.Context, designNumber string) (models.BustResult, error)
}
