package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "gearpool/internal/handler/dto/request"
	resdto "gearpool/internal/handler/dto/response"
	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemHandler struct {
	ledgerCommands commands.LedgerCommands
	itemQueries    queries.ItemQueries
}

func NewItemHandler(ledgerCommands commands.LedgerCommands, itemQueries queries.ItemQueries) *ItemHandler {
	return &ItemHandler{
		ledgerCommands: ledgerCommands,
		itemQueries:    itemQueries,
	}
}

// @Summary Create item
// @Description Register a new pool of interchangeable units
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateItemRequest true "Item definition"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req reqdto.CreateItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.ledgerCommands.CreateItem(c.Request.Context(), req.Name, req.QuantityTotal)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Get item
// @Description Get item by ID with its current counters and status
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 404 {object} map[string]string
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.itemQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemView(view))
}

// @Summary List items
// @Description List all items with their counters and statuses
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ItemResponse
// @Router /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	views, err := h.itemQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ItemResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromItemView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Approve checkout of units
// @Description Atomically decrement availability for the given quantity
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body reqdto.ApproveCheckoutRequest true "Quantity"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /items/{id}/approve-checkout [post]
func (h *ItemHandler) ApproveCheckout(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.ApproveCheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.ledgerCommands.ApproveCheckout(c.Request.Context(), id, req.Quantity); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Register return of units
// @Description Increment availability, clamped at the total; surplus reported
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body reqdto.RegisterReturnRequest true "Quantity"
// @Success 200 {object} resdto.ReturnResultResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /items/{id}/register-return [post]
func (h *ItemHandler) RegisterReturn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.RegisterReturnRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.ledgerCommands.RegisterReturn(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	// An over-return is still a successful return; the anomaly travels in
	// the body, not the status code.
	c.JSON(http.StatusOK, resdto.FromReturnResult(result))
}

// @Summary Adjust item total
// @Description Change the physical pool size; refuses to strand checked-out units
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body reqdto.AdjustTotalRequest true "New total"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /items/{id}/adjust-total [post]
func (h *ItemHandler) AdjustTotal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.AdjustTotalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.ledgerCommands.AdjustTotal(c.Request.Context(), id, req.NewTotal); err != nil {
		switch {
		case errors.Is(err, commands.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
		case errors.Is(err, commands.ErrInvalidAdjustment):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Total cannot shrink below the checked-out count",
			})
		case errors.Is(err, commands.ErrItemUnavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Item is retired or under repair",
			})
		case errors.Is(err, commands.ErrInvalidTotal):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Total must be non-negative",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark item under repair
// @Tags items
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /items/{id}/under-repair [post]
func (h *ItemHandler) MarkUnderRepair(c *gin.Context) {
	h.setAdministrativeState(c, h.ledgerCommands.MarkUnderRepair)
}

// @Summary Retire item
// @Tags items
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /items/{id}/retire [post]
func (h *ItemHandler) Retire(c *gin.Context) {
	h.setAdministrativeState(c, h.ledgerCommands.Retire)
}

// @Summary Reinstate item
// @Description Bring an item back from an administrative state
// @Tags items
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /items/{id}/reinstate [post]
func (h *ItemHandler) Reinstate(c *gin.Context) {
	h.setAdministrativeState(c, h.ledgerCommands.Reinstate)
}

func (h *ItemHandler) setAdministrativeState(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
	case errors.Is(err, commands.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Item is retired or under repair",
		})
	case errors.Is(err, commands.ErrInsufficientAvailability):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient availability",
		})
	case errors.Is(err, commands.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be positive",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
