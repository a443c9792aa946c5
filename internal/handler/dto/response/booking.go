package response

import (
	"time"

	"gearpool/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	RequesterID       uuid.UUID  `json:"requesterId"`
	DateOfUse         string     `json:"dateOfUse"`
	TimeSlot          string     `json:"timeSlot"`
	Status            string     `json:"status"`
	AssignedVehicleID *uuid.UUID `json:"assignedVehicleId,omitempty"`
	AssignedVehicle   *string    `json:"assignedVehicle,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type VehicleResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:                rm.ID,
		RequesterID:       rm.RequesterID,
		DateOfUse:         rm.DateOfUse.Format("2006-01-02"),
		TimeSlot:          rm.TimeSlot,
		Status:            rm.Status,
		AssignedVehicleID: rm.AssignedVehicleID,
		AssignedVehicle:   rm.AssignedVehicle,
		CreatedAt:         rm.CreatedAt,
		UpdatedAt:         rm.UpdatedAt,
	}
}

func FromVehicleView(rm *queries.VehicleView) *VehicleResponse {
	return &VehicleResponse{
		ID:        rm.ID,
		Label:     rm.Label,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}
