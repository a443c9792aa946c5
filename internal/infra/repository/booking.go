package repository

import (
	"context"

	"gearpool/internal/domain/booking"
	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const createBookingSQL = `
INSERT INTO bookings (id, requester_id, date_of_use, time_slot, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, createBookingSQL,
		b.ID(), b.RequesterID(),
		pgconv.DateToPgtype(b.Slot().DateOfUse()), b.Slot().TimeSlot(),
		b.Status().String())
	if err != nil {
		if infra.IsPgError(err, infra.PgForeignKeyViolation) {
			return infra.WrapRepoErr("requester does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

const findBookingSQL = `
SELECT id, requester_id, date_of_use, time_slot, status, created_at, updated_at
  FROM bookings
 WHERE id = $1`

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var (
		bookingID, requesterID uuid.UUID
		dateOfUse              pgtype.Date
		timeSlot, status       string
		created, updated       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findBookingSQL, id).
		Scan(&bookingID, &requesterID, &dateOfUse, &timeSlot, &status, &created, &updated)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	return booking.ReconstructBooking(
		bookingID, requesterID,
		booking.ReconstructUseSlot(pgconv.DateFromPgtype(dateOfUse), timeSlot),
		booking.Status(status),
		pgconv.TimeFromPgtype(created), pgconv.TimeFromPgtype(updated),
	), nil
}

const updateBookingStatusSQL = `
UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	tag, err := r.db.Exec(ctx, updateBookingStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
