package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/service"
)

// Response headers describing how a mockup was produced
const (
	HeaderFallback = "X-Mockup-Fallback"
	HeaderCache    = "X-Mockup-Cache"
	HeaderReason   = "X-Mockup-Reason"
)

// MockupController handles HTTP requests for mockup images
type MockupController struct {
	mockupService service.MockupServiceInterface
	warmService   service.WarmServiceInterface
}

// NewMockupController creates a new MockupController
func NewMockupController(mockupService service.MockupServiceInterface, warmService service.WarmServiceInterface) *MockupController {
	return &MockupController{
		mockupService: mockupService,
		warmService:   warmService,
	}
}

// GetMockup handles GET /mockups/:request
// Always answers with an image; a failed generation returns the fallback image.
func (c *MockupController) GetMockup(ctx *gin.Context) {
	request := ctx.Param("request")
	result := c.mockupService.Generate(ctx.Request.Context(), request)

	if result.Fallback {
		ctx.Header(HeaderFallback, "true")
		if result.Reason != "" {
			ctx.Header(HeaderReason, result.Reason)
		}
		ctx.Header("Cache-Control", "no-store")
	} else {
		ctx.Header("Cache-Control", "public, max-age=3600")
	}
	if result.CacheHit {
		ctx.Header(HeaderCache, "hit")
	} else {
		ctx.Header(HeaderCache, "miss")
	}

	ctx.Data(http.StatusOK, result.ContentType, result.Data)
}

// BustMockup handles DELETE /admin/mockups/:request
// Removes the composite for one template plus the design's shared artifacts.
func (c *MockupController) BustMockup(ctx *gin.Context) {
	result, err := c.mockupService.BustTemplate(ctx.Request.Context(), ctx.Param("request"))
	writeBustResult(ctx, result, err)
}

// BustDesign handles DELETE /admin/designs/:designNumber
// Removes every artifact of the design across all templates.
func (c *MockupController) BustDesign(ctx *gin.Context) {
	result, err := c.mockupService.BustDesign(ctx.Request.Context(), ctx.Param("designNumber"))
	writeBustResult(ctx, result, err)
}

// WarmDesign handles POST /admin/designs/:designNumber/warm?ext=jpg
// Pre-generates the design on every template so later requests hit the cache.
func (c *MockupController) WarmDesign(ctx *gin.Context) {
	result, err := c.warmService.WarmDesign(ctx.Request.Context(), ctx.Param("designNumber"), ctx.Query("ext"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrMalformedRequest) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func writeBustResult(ctx *gin.Context, result models.BustResult, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrMalformedRequest) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	ctx.JSON(status, result)
}
