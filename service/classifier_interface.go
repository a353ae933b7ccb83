package service

import "armario-mascota-mockups/models"

// ProductClassifierInterface defines the contract for template classification
type ProductClassifierInterface interface {
	Classify(templateID string) (models.ProductType, bool)
}
