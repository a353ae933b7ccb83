package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"armario-mascota-mockups/app/controller"
)

type Controllers struct {
	Mockup    *controller.MockupController
	Placement *controller.PlacementController
}

// pingHandler handles GET /ping
func pingHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func SetupRoutes(controllers *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Ping endpoint
	r.GET("/ping", pingHandler)

	// Mockup images
	r.GET("/mockups/:request", controllers.Mockup.GetMockup)

	admin := r.Group("/admin")
	{
		// Cache busting
		admin.DELETE("/mockups/:request", controllers.Mockup.BustMockup)
		admin.DELETE("/designs/:designNumber", controllers.Mockup.BustDesign)

		// Cache warm-up
		admin.POST("/designs/:designNumber/warm", controllers.Mockup.WarmDesign)

		// Placement table
		admin.GET("/placements", controllers.Placement.GetPlacements)
	}

	return r
}
