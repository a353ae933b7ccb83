package service

import (
	"context"
	"image"

	"armario-mascota-mockups/models"
)

// DesignExtractorInterface defines the contract for trimming design assets
type DesignExtractorInterface interface {
	Extract(asset models.DesignAsset) (*models.ExtractedDesign, error)
}

// PositionerInterface defines the contract for scaling and positioning designs
type PositionerInterface interface {
	PlaceOn(width, height int, spec models.PlacementSpec, canvas models.Canvas) (models.Position, error)
	Anchor(targetW, targetH int, spec models.PlacementSpec, canvas models.Canvas) models.Position
}

// CompositorInterface defines the contract for overlaying designs on templates
type CompositorInterface interface {
	Composite(ctx context.Context, base image.Image, overlay image.Image, pos models.Position, ext string) ([]byte, error)
}

// TemplateLoaderInterface defines the contract for loading template photos
type TemplateLoaderInterface interface {
	Load(ctx context.Context, templateID string) (image.Image, error)
	List(ctx context.Context) ([]string, error)
}
