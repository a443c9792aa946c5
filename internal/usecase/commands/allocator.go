package commands

import (
	"context"
	"log/slog"

	"gearpool/internal/domain/booking"
	"gearpool/internal/domain/vehicle"
	"gearpool/internal/infra"
	"gearpool/internal/pkg/errs"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
)

// SlotConflictDetail names the booking already holding the contested slot so
// the caller can tell the user which reservation is in the way.
type SlotConflictDetail struct {
	VehicleID       uuid.UUID `json:"vehicle_id"`
	HeldByBookingID uuid.UUID `json:"held_by_booking_id"`
	DateOfUse       string    `json:"date_of_use"`
	TimeSlot        string    `json:"time_slot"`
	SameSlot        bool      `json:"same_slot"`
	OutstandingOnly bool      `json:"outstanding_only,omitempty"`
}

type ConflictError struct {
	Sentinel error
	Detail   SlotConflictDetail
}

func (e *ConflictError) Error() string {
	return e.Sentinel.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Sentinel
}

type AllocatorCommands interface {
	// AssignVehicle reserves the vehicle for an approved booking. The
	// conflict check and the assignment write share one transaction; the
	// store's unique active-assignment constraint backstops the race two
	// concurrent administrators could otherwise win together.
	AssignVehicle(ctx context.Context, bookingID, vehicleID uuid.UUID) error
	UnassignVehicle(ctx context.Context, bookingID uuid.UUID) error
}

type allocatorCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewAllocatorCommands(uow shared.UnitOfWork) AllocatorCommands {
	return &allocatorCommandsImpl{uow: uow}
}

func (a *allocatorCommandsImpl) AssignVehicle(ctx context.Context, bookingID, vehicleID uuid.UUID) error {
	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := tx.Vehicles().FindByID(ctx, vehicleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVehicleUnavailable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if v.IsRetired() {
			return ErrVehicleUnavailable
		}

		b, err := findBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusApproved {
			return ErrBookingNotApproved
		}

		prev, err := tx.Assignments().FindByBooking(ctx, bookingID)
		if err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			prev = nil
		}

		others, err := tx.Assignments().ListActiveByVehicle(ctx, vehicleID, bookingID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Hard conflict first: a booking claiming the identical date and
		// slot. Anything else outstanding still locks the vehicle outright,
		// because an approved booking keeps custody until it completes.
		for _, other := range others {
			if b.Slot().Same(booking.ReconstructUseSlot(other.DateOfUse, other.TimeSlot)) {
				return &ConflictError{
					Sentinel: ErrSlotConflict,
					Detail: SlotConflictDetail{
						VehicleID:       vehicleID,
						HeldByBookingID: other.BookingID,
						DateOfUse:       other.DateOfUse.Format("2006-01-02"),
						TimeSlot:        other.TimeSlot,
						SameSlot:        true,
					},
				}
			}
		}
		if len(others) > 0 {
			return &ConflictError{
				Sentinel: ErrVehicleLocked,
				Detail: SlotConflictDetail{
					VehicleID:       vehicleID,
					HeldByBookingID: others[0].BookingID,
					DateOfUse:       others[0].DateOfUse.Format("2006-01-02"),
					TimeSlot:        others[0].TimeSlot,
					OutstandingOnly: true,
				},
			}
		}

		if err := tx.Assignments().Upsert(ctx, bookingID, vehicleID); err != nil {
			// Another transaction won the row between our check and write.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				slog.Warn("concurrent assignment lost unique-constraint race",
					"vehicle_id", vehicleID.String(),
					"booking_id", bookingID.String())
				return ErrVehicleLocked
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Vehicles().SetStatus(ctx, vehicleID, vehicle.StatusCheckedOut); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Reassignment moves the booking's row to the new vehicle, so the
		// previous holder must be released here or it stays checked out with
		// nothing assigned to it.
		if prev != nil && prev.VehicleID != vehicleID {
			return releaseVehicleIfIdle(ctx, tx, prev.VehicleID, bookingID)
		}
		return nil
	})
}

func (a *allocatorCommandsImpl) UnassignVehicle(ctx context.Context, bookingID uuid.UUID) error {
	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Assignments().FindByBooking(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAssignmentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Assignments().DeleteByBooking(ctx, bookingID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return releaseVehicleIfIdle(ctx, tx, rec.VehicleID, bookingID)
	})
}

// releaseVehicleIfIdle returns the vehicle to Active once no approved
// booking holds it anymore.
func releaseVehicleIfIdle(ctx context.Context, tx shared.Tx, vehicleID, excludeBooking uuid.UUID) error {
	remaining, err := tx.Assignments().ListActiveByVehicle(ctx, vehicleID, excludeBooking)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(remaining) > 0 {
		return nil
	}

	v, err := tx.Vehicles().FindByID(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrVehicleNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if v.IsRetired() {
		return nil
	}

	if err := tx.Vehicles().SetStatus(ctx, vehicleID, vehicle.StatusActive); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func findBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}
