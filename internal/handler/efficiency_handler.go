package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza-api/internal/service"
	"github.com/cadenza-app/cadenza-api/pkg/response"
)

// EfficiencyHandler serves teacher schedule efficiency reports.
type EfficiencyHandler struct {
	efficiency *service.EfficiencyService
}

// NewEfficiencyHandler constructs EfficiencyHandler.
func NewEfficiencyHandler(efficiency *service.EfficiencyService) *EfficiencyHandler {
	return &EfficiencyHandler{efficiency: efficiency}
}

// Report handles GET /teachers/:id/efficiency.
func (h *EfficiencyHandler) Report(c *gin.Context) {
	report, err := h.efficiency.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
