package readstore

import (
	"context"

	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"
	"gearpool/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.requester_id, b.date_of_use, b.time_slot, b.status,
       a.vehicle_id, v.label,
       b.created_at, b.updated_at
  FROM bookings b
  LEFT JOIN assignments a ON a.booking_id = b.id
  LEFT JOIN vehicles v ON v.id = a.vehicle_id
 WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := scanBookingView(r.db.QueryRow(ctx, bookingViewSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

const bookingsByRequesterSQL = `
SELECT b.id, b.requester_id, b.date_of_use, b.time_slot, b.status,
       a.vehicle_id, v.label,
       b.created_at, b.updated_at
  FROM bookings b
  LEFT JOIN assignments a ON a.booking_id = b.id
  LEFT JOIN vehicles v ON v.id = a.vehicle_id
 WHERE b.requester_id = $1
 ORDER BY b.date_of_use DESC, b.created_at DESC`

func (r *BookingReadStore) FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, bookingsByRequesterSQL, requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by requester", err)
	}
	defer rows.Close()

	var result []*queries.BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

const vehicleListSQL = `
SELECT id, label, status, created_at, updated_at FROM vehicles ORDER BY label, id`

func (r *BookingReadStore) FindAllVehicles(ctx context.Context) ([]*queries.VehicleView, error) {
	rows, err := r.db.Query(ctx, vehicleListSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vehicles", err)
	}
	defer rows.Close()

	var result []*queries.VehicleView
	for rows.Next() {
		var (
			view             queries.VehicleView
			created, updated pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.Label, &view.Status, &created, &updated); err != nil {
			return nil, infra.WrapRepoErr("failed to scan vehicle row", err)
		}
		view.CreatedAt = pgconv.TimeFromPgtype(created)
		view.UpdatedAt = pgconv.TimeFromPgtype(updated)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate vehicle rows", err)
	}
	return result, nil
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		view             queries.BookingView
		dateOfUse        pgtype.Date
		vehicleID        pgtype.UUID
		vehicleLabel     pgtype.Text
		created, updated pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.RequesterID, &dateOfUse, &view.TimeSlot, &view.Status,
		&vehicleID, &vehicleLabel, &created, &updated)
	if err != nil {
		return nil, err
	}
	view.DateOfUse = pgconv.DateFromPgtype(dateOfUse)
	view.AssignedVehicleID = pgconv.UUIDPtrFromPgtype(vehicleID)
	view.AssignedVehicle = pgconv.StringPtrFromPgtype(vehicleLabel)
	view.CreatedAt = pgconv.TimeFromPgtype(created)
	view.UpdatedAt = pgconv.TimeFromPgtype(updated)
	return &view, nil
}
