package repository

import (
	"context"

	"gearpool/internal/domain/vehicle"
	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

const createVehicleSQL = `
INSERT INTO vehicles (id, label, status, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())`

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	_, err := r.db.Exec(ctx, createVehicleSQL, v.ID(), v.Label(), v.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to create vehicle", err)
	}
	return nil
}

const findVehicleSQL = `
SELECT id, label, status, created_at, updated_at FROM vehicles WHERE id = $1`

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	var (
		vehicleID        uuid.UUID
		label, status    string
		created, updated pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findVehicleSQL, id).
		Scan(&vehicleID, &label, &status, &created, &updated)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle", err)
	}

	return vehicle.ReconstructVehicle(
		vehicleID, label, vehicle.Status(status),
		pgconv.TimeFromPgtype(created), pgconv.TimeFromPgtype(updated),
	), nil
}

const setVehicleStatusSQL = `
UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`

func (r *VehicleRepository) SetStatus(ctx context.Context, id uuid.UUID, status vehicle.Status) error {
	tag, err := r.db.Exec(ctx, setVehicleStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set vehicle status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}
