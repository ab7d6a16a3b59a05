package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/service"
	"github.com/jengzang/paddock-backend-go/internal/session"
	"github.com/jengzang/paddock-backend-go/pkg/response"
)

// FarmHandler handles HTTP requests for farms, paddocks and map layers
type FarmHandler struct {
	service *service.FarmService
}

// NewFarmHandler creates a new farm handler
func NewFarmHandler(service *service.FarmService) *FarmHandler {
	return &FarmHandler{service: service}
}

type transitionRequest struct {
	State models.AppState `json:"state" binding:"required"`
}

type vertexRequest struct {
	Lng *float64 `json:"lng" binding:"required,min=-180,max=180"`
	Lat *float64 `json:"lat" binding:"required,min=-90,max=90"`
}

type farmRequest struct {
	Name string `json:"name" binding:"required"`
}

type paddockRequest struct {
	Name     string `json:"name" binding:"required"`
	Purpose  string `json:"purpose"`
	Capacity int    `json:"capacity" binding:"min=0"`
	Notes    string `json:"notes"`
}

func (r paddockRequest) details() models.PaddockDetails {
	return models.PaddockDetails{Name: r.Name, Purpose: r.Purpose, Capacity: r.Capacity, Notes: r.Notes}
}

type validateRequest struct {
	Paddock models.Ring `json:"paddock" binding:"required"`
	Farm    models.Ring `json:"farm" binding:"required"`
}

// StatusFor maps a domain error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrFeatureNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownState), errors.Is(err, session.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrNotDrawing),
		errors.Is(err, session.ErrTooFewVertices),
		errors.Is(err, session.ErrNoFarmSelected),
		errors.Is(err, session.ErrPaddockOutsideFarm),
		errors.Is(err, session.ErrNotAPaddock),
		errors.Is(err, session.ErrNotAFarm):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, message string, err error) {
	response.Error(c, StatusFor(err), message, err)
}

// GetState handles GET /api/v1/state
func (h *FarmHandler) GetState(c *gin.Context) {
	response.Success(c, h.service.Snapshot())
}

// Transition handles POST /api/v1/state/transition
func (h *FarmHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	snap, err := h.service.Transition(req.State)
	if err != nil {
		fail(c, "Failed to change state", err)
		return
	}
	response.Success(c, snap)
}

// Reset handles POST /api/v1/state/reset
func (h *FarmHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(); err != nil {
		fail(c, "Failed to reset", err)
		return
	}
	response.Success(c, h.service.Snapshot())
}

// GetFeatures handles GET /api/v1/features
func (h *FarmHandler) GetFeatures(c *gin.Context) {
	response.Success(c, h.service.Features())
}

// GetFarms handles GET /api/v1/farms
func (h *FarmHandler) GetFarms(c *gin.Context) {
	farms := h.service.Farms()
	response.Success(c, gin.H{
		"data":  farms,
		"count": len(farms),
	})
}

// GetFarmPaddocks handles GET /api/v1/farms/:id/paddocks
func (h *FarmHandler) GetFarmPaddocks(c *gin.Context) {
	paddocks, err := h.service.PaddocksForFarm(c.Param("id"))
	if err != nil {
		fail(c, "Failed to get paddocks", err)
		return
	}
	response.Success(c, gin.H{
		"data":  paddocks,
		"count": len(paddocks),
	})
}

// SelectFarm handles PUT /api/v1/farms/:id/select
func (h *FarmHandler) SelectFarm(c *gin.Context) {
	if err := h.service.SelectFarm(c.Param("id")); err != nil {
		fail(c, "Failed to select farm", err)
		return
	}
	response.Success(c, h.service.Snapshot())
}

// UpdatePaddock handles PUT /api/v1/paddocks/:id
func (h *FarmHandler) UpdatePaddock(c *gin.Context) {
	var req paddockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	paddock, err := h.service.UpdatePaddock(c.Param("id"), req.details())
	if err != nil {
		fail(c, "Failed to update paddock", err)
		return
	}
	response.Success(c, paddock)
}

// DeleteFeature handles DELETE /api/v1/features/:id
func (h *FarmHandler) DeleteFeature(c *gin.Context) {
	if err := h.service.DeleteFeature(c.Param("id")); err != nil {
		fail(c, "Failed to delete feature", err)
		return
	}
	response.Success(c, h.service.Snapshot())
}

// AddVertex handles POST /api/v1/draft/vertices
func (h *FarmHandler) AddVertex(c *gin.Context) {
	var req vertexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid vertex", err)
		return
	}

	snap, err := h.service.AddVertex(models.Coordinate{Lng: *req.Lng, Lat: *req.Lat})
	if err != nil {
		fail(c, "Failed to add vertex", err)
		return
	}
	response.Success(c, snap)
}

// UndoVertex handles DELETE /api/v1/draft/vertices/last
func (h *FarmHandler) UndoVertex(c *gin.Context) {
	snap, err := h.service.UndoVertex()
	if err != nil {
		fail(c, "Failed to undo vertex", err)
		return
	}
	response.Success(c, snap)
}

// CompleteFarm handles POST /api/v1/draft/farm
func (h *FarmHandler) CompleteFarm(c *gin.Context) {
	var req farmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	farm, err := h.service.CompleteFarm(req.Name)
	if err != nil {
		fail(c, "Failed to create farm", err)
		return
	}
	response.Created(c, farm)
}

// CompletePaddock handles POST /api/v1/draft/paddock
func (h *FarmHandler) CompletePaddock(c *gin.Context) {
	var req paddockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	paddock, err := h.service.CompletePaddock(req.details())
	if err != nil {
		fail(c, "Failed to create paddock", err)
		return
	}
	response.Created(c, paddock)
}

// GetLivestock handles GET /api/v1/livestock
func (h *FarmHandler) GetLivestock(c *gin.Context) {
	records := h.service.Livestock()
	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// RegenerateLivestock handles POST /api/v1/livestock/regenerate
func (h *FarmHandler) RegenerateLivestock(c *gin.Context) {
	records := h.service.RegenerateLivestock()
	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// ValidatePaddock handles POST /api/v1/validate/paddock
func (h *FarmHandler) ValidatePaddock(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	v, err := service.ValidatePaddock(req.Paddock, req.Farm)
	if err != nil {
		response.BadRequest(c, "Invalid rings", err)
		return
	}
	response.Success(c, v)
}
