package shared

import (
	"context"

	"gearpool/internal/domain/booking"
	"gearpool/internal/domain/checkout"
	"gearpool/internal/domain/item"
	"gearpool/internal/domain/vehicle"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-write transaction with bounded retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent multi-table snapshot for reporting
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
}

type Tx interface {
	Items() ItemRepository
	Vehicles() VehicleRepository
	Bookings() BookingRepository
	Assignments() AssignmentRepository
	Checkouts() CheckoutRepository
	Reads() CommandReads
}

// ItemRepository owns every write to the item counters and status column.
// No other path may touch them.
type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
	// FindByIDForUpdate locks the row for the rest of the transaction.
	// Required whenever a status will be projected from the counters it
	// returns, so a concurrent reservation cannot slip between the read
	// and the write.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error)
	// ReserveUnits decrements quantity_available by qty as a single
	// conditional update (never read-then-write) and returns the resulting
	// counters. Fails with KindConflict when availability is insufficient,
	// KindUnavailable for retired/under-repair items.
	ReserveUnits(ctx context.Context, id uuid.UUID, qty int32) (ItemCounters, error)
	// ReturnUnits increments quantity_available by qty, clamped at
	// quantity_total. The clamped surplus is returned, never dropped.
	ReturnUnits(ctx context.Context, id uuid.UUID, qty int32) (ItemCounters, int32, error)
	// AdjustTotal sets a new total, guarded so the pool never shrinks below
	// what is currently checked out (KindConflict otherwise).
	AdjustTotal(ctx context.Context, id uuid.UUID, newTotal int32) (ItemCounters, error)
	SetStatus(ctx context.Context, id uuid.UUID, status item.Status) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	SetStatus(ctx context.Context, id uuid.UUID, status vehicle.Status) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
}

type AssignmentRepository interface {
	// ListActiveByVehicle returns every assignment on the vehicle whose
	// booking is still approved, optionally excluding one booking.
	ListActiveByVehicle(ctx context.Context, vehicleID uuid.UUID, excludeBooking uuid.UUID) ([]ActiveAssignment, error)
	FindByBooking(ctx context.Context, bookingID uuid.UUID) (*AssignmentRecord, error)
	// Upsert inserts or moves the booking's assignment. The unique index on
	// the vehicle's live assignment is the second line of defense against
	// concurrent assigners; violations surface as KindDuplicateKey.
	Upsert(ctx context.Context, bookingID, vehicleID uuid.UUID) error
	DeleteByBooking(ctx context.Context, bookingID uuid.UUID) error
}

type CheckoutRepository interface {
	Create(ctx context.Context, req *checkout.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*checkout.Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status checkout.Status, pendingCheckIn bool) error
	// PendingCheckInCount counts returned-but-uninspected lines that
	// reference the item; feeds the status projection.
	PendingCheckInCount(ctx context.Context, itemID uuid.UUID) (int64, error)
}

// CommandReads serves command-side lookups and the reconciler's item scan.
type CommandReads interface {
	ItemReconRows(ctx context.Context) ([]ItemReconRow, error)
}
