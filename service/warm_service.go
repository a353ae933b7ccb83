package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/utils"
)

// WarmService generates the composites of one design for every available template
// so that later requests are served from cache.
// Implements WarmServiceInterface
type WarmService struct {
	mockups   MockupServiceInterface
	templates TemplateLoaderInterface
	cache     CacheCoordinatorInterface
}

// Ensure WarmService implements WarmServiceInterface
var _ WarmServiceInterface = (*WarmService)(nil)

// NewWarmService creates a new WarmService instance
func NewWarmService(mockups MockupServiceInterface, templates TemplateLoaderInterface, cache CacheCoordinatorInterface) *WarmService {
	return &WarmService{
		mockups:   mockups,
		templates: templates,
		cache:     cache,
	}
}

// WarmDesign generates designNumber on every template in the ext output format.
// Templates whose composite is already cached are skipped. A template that can only
// produce the fallback image is reported in Errors.
func (ws *WarmService) WarmDesign(ctx context.Context, designNumber, ext string) (models.WarmResult, error) {
	if err := utils.ValidateDesignNumber(designNumber); err != nil {
		return models.WarmResult{}, err
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "jpg"
	}
	if _, ok := utils.MapExtensionToFormat(ext); !ok {
		return models.WarmResult{}, fmt.Errorf("%w: unsupported extension %q", models.ErrMalformedRequest, ext)
	}

	templateIDs, err := ws.templates.List(ctx)
	if err != nil {
		return models.WarmResult{}, err
	}

	log.Printf("🔥 Warming design %s on %d templates (.%s)", designNumber, len(templateIDs), ext)
	result := models.WarmResult{DesignNumber: designNumber, Total: len(templateIDs)}

	for _, templateID := range templateIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := ws.cache.CompositeCacheKey(templateID, designNumber, ext)
		if _, found, _ := ws.cache.Lookup(ctx, key); found {
			result.Skipped++
			continue
		}

		request := utils.FormatRequestIdentifier(models.RequestIdentifier{
			TemplateID:   templateID,
			DesignNumber: designNumber,
			Extension:    ext,
		})
		if id, err := utils.ParseRequestIdentifier(request); err != nil || id.TemplateID != templateID {
			errorMsg := fmt.Sprintf("%s: template identifier is not addressable by a request", templateID)
			log.Printf("⚠️  %s", errorMsg)
			result.Errors = append(result.Errors, errorMsg)
			continue
		}
		res := ws.mockups.Generate(ctx, request)
		if res.Fallback {
			errorMsg := fmt.Sprintf("%s: %s", request, res.Reason)
			log.Printf("❌ Warm failed for %s", errorMsg)
			result.Errors = append(result.Errors, errorMsg)
			continue
		}
		result.Generated++
	}

	log.Printf("✓ Warm finished for design %s: %d generated, %d skipped, %d failed",
		designNumber, result.Generated, result.Skipped, len(result.Errors))
	return result, nil
}
