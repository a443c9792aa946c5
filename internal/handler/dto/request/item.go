package request

type CreateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	QuantityTotal int32  `json:"quantity_total" binding:"gte=0"`
}

type ApproveCheckoutRequest struct {
	Quantity int32 `json:"quantity" binding:"required,gt=0"`
}

type RegisterReturnRequest struct {
	Quantity int32 `json:"quantity" binding:"required,gt=0"`
}

type AdjustTotalRequest struct {
	NewTotal int32 `json:"new_total" binding:"gte=0"`
}
