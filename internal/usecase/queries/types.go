package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ItemView struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	QuantityTotal     int32     `json:"quantity_total"`
	QuantityAvailable int32     `json:"quantity_available"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type VehicleView struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingView struct {
	ID                uuid.UUID  `json:"id"`
	RequesterID       uuid.UUID  `json:"requester_id"`
	DateOfUse         time.Time  `json:"date_of_use"`
	TimeSlot          string     `json:"time_slot"`
	Status            string     `json:"status"`
	AssignedVehicleID *uuid.UUID `json:"assigned_vehicle_id,omitempty"`
	AssignedVehicle   *string    `json:"assigned_vehicle,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CheckoutLineView struct {
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name"`
	Quantity int32     `json:"quantity"`
}

type CheckoutRequestView struct {
	ID             uuid.UUID          `json:"id"`
	RequesterID    uuid.UUID          `json:"requester_id"`
	Status         string             `json:"status"`
	PendingCheckIn bool               `json:"pending_check_in"`
	Lines          []CheckoutLineView `json:"lines"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// IssueView is one detected disagreement between an item's stored status and
// the status its counters imply.
type IssueView struct {
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Code       string    `json:"code"`
	Detail     string    `json:"detail"`
	Status     string    `json:"status"`
	Available  int32     `json:"available"`
	Total      int32     `json:"total"`
	Repairable bool      `json:"repairable"`
}
