package request

import "github.com/google/uuid"

type AssignVehicleRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
}
