package handler

import (
	masterdataapp "github.com/billing/backend/internal/application/masterdata"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// StateHandler handles state reference-data API endpoints
type StateHandler struct {
	BaseHandler
	stateService *masterdataapp.StateService
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(stateService *masterdataapp.StateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

// RegisterRoutes registers state routes on the given group
func (h *StateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	states := rg.Group("/masterdata/states")
	{
		states.POST("", h.Create)
		states.GET("", h.List)
		states.GET("/:id", h.GetByID)
		states.PUT("/:id", h.Update)
		states.DELETE("/:id", h.Delete)
	}
}

// Create creates a new state entry
func (h *StateHandler) Create(c *gin.Context) {
	var req masterdataapp.CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	state, err := h.stateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, state)
}

// GetByID retrieves a state by ID
func (h *StateHandler) GetByID(c *gin.Context) {
	stateID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	state, err := h.stateService.GetByID(c.Request.Context(), stateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// List retrieves every state ordered for display
func (h *StateHandler) List(c *gin.Context) {
	states, err := h.stateService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, states)
}

// Update partially updates a state
func (h *StateHandler) Update(c *gin.Context) {
	stateID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req masterdataapp.UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	state, err := h.stateService.Update(c.Request.Context(), stateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Delete soft deletes a state
func (h *StateHandler) Delete(c *gin.Context) {
	stateID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.stateService.Delete(c.Request.Context(), stateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
