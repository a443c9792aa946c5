package api

import (
	"errors"
	"net/http"

	"gearpool/internal/domain/checkout"
	reqdto "gearpool/internal/handler/dto/request"
	resdto "gearpool/internal/handler/dto/response"
	"gearpool/internal/handler/middleware"
	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
	checkoutQueries  queries.CheckoutQueries
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands, checkoutQueries queries.CheckoutQueries) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
		checkoutQueries:  checkoutQueries,
	}
}

// @Summary Submit checkout request
// @Description Request quantities of one or more items
// @Tags checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SubmitCheckoutRequest true "Requested lines"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /checkouts [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.SubmitCheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	lines := make([]checkout.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = checkout.Line{ItemID: l.ItemID, Quantity: l.Quantity}
	}

	id, err := h.checkoutCommands.Submit(c.Request.Context(), requesterID, lines)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Line quantities must be positive",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Get checkout request
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} resdto.CheckoutRequestResponse
// @Failure 404 {object} map[string]string
// @Router /checkouts/{id} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.checkoutQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Checkout request not found",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutRequestView(view))
}

// @Summary List own checkout requests
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CheckoutRequestResponse
// @Router /checkouts [get]
func (h *CheckoutHandler) ListMine(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.checkoutQueries.ListByRequester(c.Request.Context(), requesterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.CheckoutRequestResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromCheckoutRequestView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Approve checkout request
// @Description Grant every line or none; the decrements run in one transaction
// @Tags checkouts
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkouts/{id}/approve [post]
func (h *CheckoutHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.checkoutCommands.Approve(c.Request.Context(), id); err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Reject checkout request
// @Tags checkouts
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkouts/{id}/reject [post]
func (h *CheckoutHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.checkoutCommands.Reject(c.Request.Context(), id); err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark request as physically checked out
// @Tags checkouts
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkouts/{id}/checked-out [post]
func (h *CheckoutHandler) MarkCheckedOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.checkoutCommands.MarkCheckedOut(c.Request.Context(), id); err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Return a checked-out request
// @Description Hand units back; surpluses are clamped and reported
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} resdto.ReturnReportResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkouts/{id}/return [post]
func (h *CheckoutHandler) Return(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	report, err := h.checkoutCommands.Return(c.Request.Context(), id)
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReturnReport(report))
}

// @Summary Confirm check-in of returned units
// @Tags checkouts
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkouts/{id}/check-in [post]
func (h *CheckoutHandler) ConfirmCheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.checkoutCommands.ConfirmCheckIn(c.Request.Context(), id); err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Checkout request not found",
		})
	case errors.Is(err, commands.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Line item not found",
		})
	case errors.Is(err, commands.ErrRequestNotPending),
		errors.Is(err, commands.ErrRequestNotApproved),
		errors.Is(err, commands.ErrRequestNotCheckedOut),
		errors.Is(err, commands.ErrNothingToCheckIn):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, commands.ErrInsufficientAvailability):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient availability for one or more lines",
		})
	case errors.Is(err, commands.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A line item is retired or under repair",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
