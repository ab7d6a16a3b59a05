package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/paddock-backend-go/internal/config"
	"github.com/jengzang/paddock-backend-go/internal/handler"
	"github.com/jengzang/paddock-backend-go/internal/middleware"
	"github.com/jengzang/paddock-backend-go/internal/service"
)

// SetupRouter wires the farm service to the HTTP routes
func SetupRouter(cfg *config.Config, svc *service.FarmService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger("/health"), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Paddock Backend API is running",
		})
	})

	farmHandler := handler.NewFarmHandler(svc)
	vizHandler := handler.NewVisualizationHandler(svc)

	api := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		api.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))
	}
	auth := middleware.JWTAuth(cfg.JWTSecret)
	{
		state := api.Group("/state")
		{
			state.GET("", farmHandler.GetState)
			state.POST("/transition", auth, farmHandler.Transition)
			state.POST("/reset", auth, farmHandler.Reset)
		}

		api.GET("/features", farmHandler.GetFeatures)
		api.DELETE("/features/:id", auth, farmHandler.DeleteFeature)

		farms := api.Group("/farms")
		{
			farms.GET("", farmHandler.GetFarms)
			farms.GET("/:id/paddocks", farmHandler.GetFarmPaddocks)
			farms.PUT("/:id/select", auth, farmHandler.SelectFarm)
		}

		api.PUT("/paddocks/:id", auth, farmHandler.UpdatePaddock)

		draft := api.Group("/draft", auth)
		{
			draft.POST("/vertices", farmHandler.AddVertex)
			draft.DELETE("/vertices/last", farmHandler.UndoVertex)
			draft.POST("/farm", farmHandler.CompleteFarm)
			draft.POST("/paddock", farmHandler.CompletePaddock)
		}

		livestock := api.Group("/livestock")
		{
			livestock.GET("", farmHandler.GetLivestock)
			livestock.POST("/regenerate", auth, farmHandler.RegenerateLivestock)
		}

		viz := api.Group("/viz")
		{
			viz.GET("/polygons", vizHandler.GetPolygons)
			viz.GET("/labels", vizHandler.GetLabels)
			viz.GET("/livestock", vizHandler.GetLivestock)
			viz.GET("/heatmap", vizHandler.GetHeatmap)
		}

		api.POST("/validate/paddock", farmHandler.ValidatePaddock)
	}

	return r
}
