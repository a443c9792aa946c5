package shared

import (
	"time"

	"gearpool/internal/domain/item"

	"github.com/google/uuid"
)

// ItemCounters is the ledger's view of an item row right after a counter
// mutation, used to recompute the derived status inside the same
// transaction.
type ItemCounters struct {
	Available int32
	Total     int32
	Status    item.Status
}

type ActiveAssignment struct {
	BookingID uuid.UUID
	VehicleID uuid.UUID
	DateOfUse time.Time
	TimeSlot  string
}

type AssignmentRecord struct {
	BookingID uuid.UUID
	VehicleID uuid.UUID
}

// ItemReconRow is one item joined with the operation state the reconciler
// needs to recompute its status from scratch.
type ItemReconRow struct {
	ItemID           uuid.UUID
	Name             string
	Available        int32
	Total            int32
	Status           item.Status
	OutstandingLines int64
	PendingCheckIns  int64
}
