package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza-api/internal/dto"
	"github.com/cadenza-app/cadenza-api/internal/service"
	appErrors "github.com/cadenza-app/cadenza-api/pkg/errors"
	"github.com/cadenza-app/cadenza-api/pkg/response"
)

// SchedulingHandler exposes the availability and booking endpoints.
type SchedulingHandler struct {
	scheduling *service.SchedulingService
}

// NewSchedulingHandler constructs SchedulingHandler.
func NewSchedulingHandler(scheduling *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{scheduling: scheduling}
}

// GenerateSlots handles POST /scheduling/slots.
func (h *SchedulingHandler) GenerateSlots(c *gin.Context) {
	var req dto.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.scheduling.GenerateSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// DetectConflicts handles POST /scheduling/conflicts.
func (h *SchedulingHandler) DetectConflicts(c *gin.Context) {
	var req dto.DetectConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.scheduling.DetectConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// SuggestAlternatives handles POST /scheduling/alternatives.
func (h *SchedulingHandler) SuggestAlternatives(c *gin.Context) {
	var req dto.SuggestAlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	slots, err := h.scheduling.SuggestAlternatives(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"alternatives": slots})
}

// FindOptimalSlots handles POST /scheduling/optimal.
func (h *SchedulingHandler) FindOptimalSlots(c *gin.Context) {
	var req dto.FindOptimalSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	slots, err := h.scheduling.FindOptimalSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"slots": slots})
}

// Pack handles POST /scheduling/pack.
func (h *SchedulingHandler) Pack(c *gin.Context) {
	var req dto.PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	slots, err := h.scheduling.Pack(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"slots": slots})
}

// CreateBooking handles POST /bookings.
func (h *SchedulingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.scheduling.CommitBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// CancelBooking handles DELETE /bookings/:id.
func (h *SchedulingHandler) CancelBooking(c *gin.Context) {
	if err := h.scheduling.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
