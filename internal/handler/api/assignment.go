package api

import (
	"errors"
	"net/http"

	reqdto "gearpool/internal/handler/dto/request"
	"gearpool/internal/handler/httperr"
	"gearpool/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	allocatorCommands commands.AllocatorCommands
}

func NewAssignmentHandler(allocatorCommands commands.AllocatorCommands) *AssignmentHandler {
	return &AssignmentHandler{
		allocatorCommands: allocatorCommands,
	}
}

// @Summary Assign vehicle to booking
// @Description Reserve a vehicle for an approved booking; conflicts name the blocking booking
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AssignVehicleRequest true "Vehicle"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/assignment [put]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.AssignVehicleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	err := h.allocatorCommands.AssignVehicle(c.Request.Context(), bookingID, req.VehicleID)
	if err != nil {
		var conflict *commands.ConflictError
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrVehicleUnavailable):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Vehicle is missing or retired", nil)
		case errors.Is(err, commands.ErrBookingNotApproved):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not approved", nil)
		case errors.As(err, &conflict):
			// SlotConflict and VehicleLocked both land here; the detail
			// names the booking in the way so the two stay distinguishable.
			httperr.AbortWithError(c, http.StatusConflict, err, conflict.Error(), conflict.Detail)
		case errors.Is(err, commands.ErrVehicleLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Vehicle locked by an outstanding booking", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Unassign vehicle from booking
// @Tags assignments
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/assignment [delete]
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.allocatorCommands.UnassignVehicle(c.Request.Context(), bookingID); err != nil {
		if errors.Is(err, commands.ErrAssignmentNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "No assignment for this booking", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
