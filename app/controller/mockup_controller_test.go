package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/service"
)

type fakeWarmService struct {
	result models.WarmResult
	err    error
	ext    string
}

func (f *fakeWarmService) WarmDesign(ctx context.Context, designNumber, ext string) (models.WarmResult, error) {
	f.ext = ext
	return f.result, f.err
}

type fakeMockupService struct {
	result      models.CompositeResult
	bust        models.BustResult
	bustErr     error
	lastRequest string
}

func (f *fakeMockupService) Generate(ctx context.Context, request string) models.CompositeResult {
	f.lastRequest = request
	return f.result
}

func (f *fakeMockupService) BustTemplate(ctx context.Context, request string) (models.BustResult, error) {
	f.lastRequest = request
	return f.bust, f.bustErr
}

func (f *fakeMockupService) BustDesign(ctx context.Context, designNumber string) (models.BustResult, error) {
	f.lastRequest = designNumber
	return f.bust, f.bustErr
}

func newTestEngine(svc service.MockupServiceInterface) *gin.Engine {
	return newTestEngineWithWarm(svc, &fakeWarmService{})
}

func newTestEngineWithWarm(svc service.MockupServiceInterface, warm service.WarmServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewMockupController(svc, warm)
	p := NewPlacementController(service.NewDefaultPlacementRegistry())
	r := gin.New()
	r.GET("/mockups/:request", c.GetMockup)
	r.DELETE("/admin/mockups/:request", c.BustMockup)
	r.DELETE("/admin/designs/:designNumber", c.BustDesign)
	r.POST("/admin/designs/:designNumber/warm", c.WarmDesign)
	r.GET("/admin/placements", p.GetPlacements)
	return r
}

func TestMockupController_GetMockup(t *testing.T) {
	t.Run("generated image", func(t *testing.T) {
		svc := &fakeMockupService{result: models.CompositeResult{
			Data: []byte("jpeg-bytes"), ContentType: "image/jpeg", CacheHit: true,
		}}
		w := httptest.NewRecorder()
		newTestEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mockups/hoodie-black-1042.jpg", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "hit", w.Header().Get(HeaderCache))
		assert.Empty(t, w.Header().Get(HeaderFallback))
		assert.Equal(t, "jpeg-bytes", w.Body.String())
		assert.Equal(t, "hoodie-black-1042.jpg", svc.lastRequest)
	})

	t.Run("fallback image", func(t *testing.T) {
		svc := &fakeMockupService{result: models.CompositeResult{
			Data: []byte("fallback"), ContentType: "image/png", Fallback: true, Reason: models.ErrAssetFetchFailed.Error(),
		}}
		w := httptest.NewRecorder()
		newTestEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mockups/hoodie-black-9.png", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get(HeaderFallback))
		assert.Equal(t, "miss", w.Header().Get(HeaderCache))
		assert.Equal(t, models.ErrAssetFetchFailed.Error(), w.Header().Get(HeaderReason))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, "fallback", w.Body.String())
	})
}

func TestMockupController_Bust(t *testing.T) {
	t.Run("single template", func(t *testing.T) {
		svc := &fakeMockupService{bust: models.BustResult{DesignNumber: "1042", Scope: models.BustSingleTemplate, Removed: 3}}
		w := httptest.NewRecorder()
		newTestEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/mockups/hoodie-black-1042.jpg", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got models.BustResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 3, got.Removed)
		assert.Equal(t, models.BustSingleTemplate, got.Scope)
	})

	t.Run("malformed request", func(t *testing.T) {
		svc := &fakeMockupService{bustErr: fmt.Errorf("%w: bad", models.ErrMalformedRequest)}
		w := httptest.NewRecorder()
		newTestEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/designs/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "abc", svc.lastRequest)
	})

	t.Run("partial failure", func(t *testing.T) {
		svc := &fakeMockupService{bust: models.BustResult{DesignNumber: "7", Scope: models.BustAllTemplates, Removed: 1, Failed: 1, Errors: []string{"boom"}}}
		w := httptest.NewRecorder()
		newTestEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/designs/7", nil))

		assert.Equal(t, http.StatusMultiStatus, w.Code)
	})
}

func TestPlacementController_GetPlacements(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(&fakeMockupService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/placements", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Version    string        `json:"version"`
		Canvas     models.Canvas `json:"canvas"`
		Placements []struct {
			ProductType string               `json:"productType"`
			Placement   models.PlacementSpec `json:"placement"`
		} `json:"placements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, service.PlacementTableVersion, body.Version)
	assert.Equal(t, models.DefaultCanvas, body.Canvas)
	require.NotEmpty(t, body.Placements)

	found := false
	for _, p := range body.Placements {
		if p.ProductType == "hoodie" {
			found = true
			assert.InDelta(t, 0.50, p.Placement.MaxWidthFraction, 1e-9)
			assert.True(t, p.Placement.RepositionRequired)
		}
	}
	assert.True(t, found)
}

func TestMockupController_WarmDesign(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		warm := &fakeWarmService{result: models.WarmResult{DesignNumber: "1042", Total: 3, Generated: 2, Skipped: 1}}
		w := httptest.NewRecorder()
		newTestEngineWithWarm(&fakeMockupService{}, warm).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/designs/1042/warm?ext=png", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png", warm.ext)
		var got models.WarmResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Generated)
	})

	t.Run("bad design number", func(t *testing.T) {
		warm := &fakeWarmService{err: fmt.Errorf("%w: bad", models.ErrMalformedRequest)}
		w := httptest.NewRecorder()
		newTestEngineWithWarm(&fakeMockupService{}, warm).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/designs/x/warm", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
