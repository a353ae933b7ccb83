package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"armario-mascota-mockups/app/controller"
	"armario-mascota-mockups/service"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes(&Controllers{
		Mockup:    controller.NewMockupController(nil, nil),
		Placement: controller.NewPlacementController(service.NewDefaultPlacementRegistry()),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/placements", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /mockups/:request",
		"DELETE /admin/mockups/:request",
		"DELETE /admin/designs/:designNumber",
		"POST /admin/designs/:designNumber/warm",
	} {
		assert.True(t, routes[want], want)
	}
}
