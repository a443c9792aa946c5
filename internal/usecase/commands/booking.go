package commands

import (
	"context"
	"time"

	"gearpool/internal/domain/booking"
	"gearpool/internal/infra"
	"gearpool/internal/pkg/clock"
	"gearpool/internal/pkg/errs"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingCommands interface {
	Create(ctx context.Context, requesterID uuid.UUID, dateOfUse time.Time, timeSlot string) (uuid.UUID, error)
	Approve(ctx context.Context, bookingID uuid.UUID) error
	Reject(ctx context.Context, bookingID uuid.UUID) error
	// Cancel releases the booking's assignment, if any, in the same
	// transaction as the status change.
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	// Complete ends the booking's custody of its vehicle; only then can the
	// vehicle be assigned again.
	Complete(ctx context.Context, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk}
}

func (b *bookingCommandsImpl) Create(ctx context.Context, requesterID uuid.UUID, dateOfUse time.Time, timeSlot string) (uuid.UUID, error) {
	slot, err := booking.NewUseSlot(dateOfUse, timeSlot)
	if err != nil {
		return uuid.Nil, err
	}
	if slot.DateOfUse().Before(todayUTC(b.clock)) {
		return uuid.Nil, ErrDateInPast
	}
	bk := booking.NewBooking(requesterID, slot)

	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Bookings().Create(ctx, bk); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bk.ID(), nil
}

func (b *bookingCommandsImpl) Approve(ctx context.Context, bookingID uuid.UUID) error {
	return b.transition(ctx, bookingID, func(bk *booking.Booking) error {
		if err := bk.Approve(); err != nil {
			return ErrBookingFinalized
		}
		return nil
	}, false)
}

func (b *bookingCommandsImpl) Reject(ctx context.Context, bookingID uuid.UUID) error {
	return b.transition(ctx, bookingID, func(bk *booking.Booking) error {
		if err := bk.Reject(); err != nil {
			return ErrBookingFinalized
		}
		return nil
	}, false)
}

func (b *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	return b.transition(ctx, bookingID, func(bk *booking.Booking) error {
		if err := bk.Cancel(); err != nil {
			return ErrBookingFinalized
		}
		return nil
	}, true)
}

func (b *bookingCommandsImpl) Complete(ctx context.Context, bookingID uuid.UUID) error {
	return b.transition(ctx, bookingID, func(bk *booking.Booking) error {
		if err := bk.Complete(); err != nil {
			return ErrBookingNotApproved
		}
		return nil
	}, true)
}

func (b *bookingCommandsImpl) transition(
	ctx context.Context,
	bookingID uuid.UUID,
	apply func(*booking.Booking) error,
	releaseVehicle bool,
) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bk, err := findBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := apply(bk); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, bk.Status()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !releaseVehicle {
			return nil
		}

		// Custody ends with the booking: drop the assignment row so the
		// vehicle's unique active-assignment slot frees up.
		rec, err := tx.Assignments().FindByBooking(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Assignments().DeleteByBooking(ctx, bookingID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return releaseVehicleIfIdle(ctx, tx, rec.VehicleID, bookingID)
	})
}

func todayUTC(clk clock.Clock) time.Time {
	y, m, d := clk.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
