package api

import (
	"net/http"

	resdto "gearpool/internal/handler/dto/response"
	"gearpool/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ReconHandler struct {
	reconcilerCommands commands.ReconcilerCommands
}

func NewReconHandler(reconcilerCommands commands.ReconcilerCommands) *ReconHandler {
	return &ReconHandler{
		reconcilerCommands: reconcilerCommands,
	}
}

// @Summary Validate item consistency
// @Description Report status/counter disagreements without writing anything
// @Tags consistency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ValidationReportResponse
// @Router /admin/consistency [get]
func (h *ReconHandler) Validate(c *gin.Context) {
	report, err := h.reconcilerCommands.Validate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromValidationReport(report))
}

// @Summary Repair drifted item statuses
// @Description Rewrite each drifted status from the counters; counter corruption is reported, not repaired
// @Tags consistency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RepairReportResponse
// @Router /admin/consistency/repair [post]
func (h *ReconHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcilerCommands.Reconcile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromRepairReport(report))
}
