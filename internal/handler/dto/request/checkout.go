package request

import "github.com/google/uuid"

type CheckoutLineRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required,gt=0"`
}

type SubmitCheckoutRequest struct {
	Lines []CheckoutLineRequest `json:"lines" binding:"required,min=1,dive"`
}
