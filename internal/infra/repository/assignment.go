package repository

import (
	"context"

	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AssignmentRepository struct {
	db db.DBTX
}

func NewAssignmentRepository(dbtx db.DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: dbtx}
}

const listActiveByVehicleSQL = `
SELECT a.booking_id, a.vehicle_id, b.date_of_use, b.time_slot
  FROM assignments a
  JOIN bookings b ON b.id = a.booking_id
 WHERE a.vehicle_id = $1
   AND b.status = 'approved'
   AND a.booking_id <> $2`

func (r *AssignmentRepository) ListActiveByVehicle(ctx context.Context, vehicleID uuid.UUID, excludeBooking uuid.UUID) ([]shared.ActiveAssignment, error) {
	rows, err := r.db.Query(ctx, listActiveByVehicleSQL, vehicleID, excludeBooking)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active assignments", err)
	}
	defer rows.Close()

	var out []shared.ActiveAssignment
	for rows.Next() {
		var (
			a         shared.ActiveAssignment
			dateOfUse pgtype.Date
		)
		if err := rows.Scan(&a.BookingID, &a.VehicleID, &dateOfUse, &a.TimeSlot); err != nil {
			return nil, infra.WrapRepoErr("failed to scan assignment row", err)
		}
		a.DateOfUse = pgconv.DateFromPgtype(dateOfUse)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate assignment rows", err)
	}
	return out, nil
}

const findAssignmentByBookingSQL = `
SELECT booking_id, vehicle_id FROM assignments WHERE booking_id = $1`

func (r *AssignmentRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) (*shared.AssignmentRecord, error) {
	var rec shared.AssignmentRecord
	err := r.db.QueryRow(ctx, findAssignmentByBookingSQL, bookingID).
		Scan(&rec.BookingID, &rec.VehicleID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("assignment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find assignment", err)
	}
	return &rec, nil
}

// A booking holds at most one vehicle, so a repeated assign moves it. The
// partial unique index on active vehicle assignments rejects a concurrent
// claim on the same vehicle at commit time.
const upsertAssignmentSQL = `
INSERT INTO assignments (booking_id, vehicle_id, created_at, updated_at)
VALUES ($1, $2, now(), now())
ON CONFLICT (booking_id)
DO UPDATE SET vehicle_id = EXCLUDED.vehicle_id, updated_at = now()`

func (r *AssignmentRepository) Upsert(ctx context.Context, bookingID, vehicleID uuid.UUID) error {
	_, err := r.db.Exec(ctx, upsertAssignmentSQL, bookingID, vehicleID)
	if err != nil {
		if infra.IsPgError(err, infra.PgUniqueViolation) {
			return infra.WrapRepoErr("vehicle already assigned", err, infra.KindDuplicateKey)
		}
		if infra.IsPgError(err, infra.PgForeignKeyViolation) {
			return infra.WrapRepoErr("booking or vehicle does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to upsert assignment", err)
	}
	return nil
}

const deleteAssignmentByBookingSQL = `
DELETE FROM assignments WHERE booking_id = $1`

func (r *AssignmentRepository) DeleteByBooking(ctx context.Context, bookingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteAssignmentByBookingSQL, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete assignment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("assignment not found", nil, infra.KindNotFound)
	}
	return nil
}
