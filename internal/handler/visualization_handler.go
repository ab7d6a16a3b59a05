package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/paddock-backend-go/internal/service"
	"github.com/jengzang/paddock-backend-go/pkg/response"
)

// VisualizationHandler serves the GeoJSON map layers
type VisualizationHandler struct {
	service *service.FarmService
}

// NewVisualizationHandler creates a new visualization handler
func NewVisualizationHandler(service *service.FarmService) *VisualizationHandler {
	return &VisualizationHandler{service: service}
}

// GetPolygons handles GET /api/v1/viz/polygons
func (h *VisualizationHandler) GetPolygons(c *gin.Context) {
	response.Success(c, h.service.PolygonCollection())
}

// GetLabels handles GET /api/v1/viz/labels
func (h *VisualizationHandler) GetLabels(c *gin.Context) {
	response.Success(c, h.service.LabelCollection())
}

// GetLivestock handles GET /api/v1/viz/livestock
func (h *VisualizationHandler) GetLivestock(c *gin.Context) {
	response.Success(c, h.service.LivestockCollection())
}

// GetHeatmap handles GET /api/v1/viz/heatmap
func (h *VisualizationHandler) GetHeatmap(c *gin.Context) {
	response.Success(c, h.service.HeatmapCollection())
}
