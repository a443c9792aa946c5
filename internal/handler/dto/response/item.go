package response

import (
	"time"

	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/google/uuid"
)

type ItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	QuantityTotal     int32     `json:"quantityTotal"`
	QuantityAvailable int32     `json:"quantityAvailable"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func FromItemView(rm *queries.ItemView) *ItemResponse {
	return &ItemResponse{
		ID:                rm.ID,
		Name:              rm.Name,
		QuantityTotal:     rm.QuantityTotal,
		QuantityAvailable: rm.QuantityAvailable,
		Status:            rm.Status,
		CreatedAt:         rm.CreatedAt,
		UpdatedAt:         rm.UpdatedAt,
	}
}

type ReturnResultResponse struct {
	ItemID     uuid.UUID `json:"itemId"`
	Accepted   int32     `json:"accepted"`
	Surplus    int32     `json:"surplus"`
	OverReturn bool      `json:"overReturn"`
	NewStatus  string    `json:"newStatus"`
}

func FromReturnResult(r *commands.ReturnResult) *ReturnResultResponse {
	return &ReturnResultResponse{
		ItemID:     r.ItemID,
		Accepted:   r.Accepted,
		Surplus:    r.Surplus,
		OverReturn: r.OverReturn(),
		NewStatus:  r.NewStatus.String(),
	}
}
