package repository

import (
	"context"

	domainitem "gearpool/internal/domain/item"
	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ItemRepository struct {
	db db.DBTX
}

func NewItemRepository(dbtx db.DBTX) *ItemRepository {
	return &ItemRepository{db: dbtx}
}

const createItemSQL = `
INSERT INTO items (id, name, quantity_total, quantity_available, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`

func (r *ItemRepository) Create(ctx context.Context, it *domainitem.Item) error {
	_, err := r.db.Exec(ctx, createItemSQL,
		it.ID(), it.Name(), it.QuantityTotal(), it.QuantityAvailable(), it.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to create item", err)
	}
	return nil
}

const findItemSQL = `
SELECT id, name, quantity_total, quantity_available, status, created_at, updated_at
  FROM items
 WHERE id = $1`

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainitem.Item, error) {
	return r.scanItem(r.db.QueryRow(ctx, findItemSQL, id))
}

const findItemForUpdateSQL = findItemSQL + `
   FOR UPDATE`

// FindByIDForUpdate holds the row lock until commit so a status projected
// from these counters cannot be overwritten by a concurrent reservation.
func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domainitem.Item, error) {
	return r.scanItem(r.db.QueryRow(ctx, findItemForUpdateSQL, id))
}

func (r *ItemRepository) scanItem(row rowScanner) (*domainitem.Item, error) {
	var (
		itemID           uuid.UUID
		name             string
		total, available int32
		status           string
		created, updated pgtype.Timestamptz
	)
	if err := row.Scan(&itemID, &name, &total, &available, &status, &created, &updated); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find item", err)
	}

	return domainitem.ReconstructItem(
		itemID, name, total, available,
		domainitem.Status(status),
		pgconv.TimeFromPgtype(created), pgconv.TimeFromPgtype(updated),
	), nil
}

// The decrement and its guard run as one conditional update so concurrent
// approvals can never both observe the same availability.
const reserveUnitsSQL = `
UPDATE items
   SET quantity_available = quantity_available - $2,
       updated_at = now()
 WHERE id = $1
   AND status NOT IN ('retired', 'under_repair')
   AND quantity_available >= $2
RETURNING quantity_available, quantity_total, status`

func (r *ItemRepository) ReserveUnits(ctx context.Context, id uuid.UUID, qty int32) (shared.ItemCounters, error) {
	counters, err := r.scanCounters(r.db.QueryRow(ctx, reserveUnitsSQL, id, qty))
	if err == nil {
		return counters, nil
	}
	if !pgconv.IsNoRows(err) {
		return shared.ItemCounters{}, infra.WrapRepoErr("failed to reserve units", err)
	}
	return shared.ItemCounters{}, r.classifyGuardMiss(ctx, id, "insufficient availability")
}

// Returned units are clamped at the total; the prior value is read in the
// same statement so the clamped surplus can be reported to the caller.
const returnUnitsSQL = `
WITH before AS (
	SELECT quantity_available FROM items WHERE id = $1
)
UPDATE items
   SET quantity_available = LEAST(quantity_available + $2, quantity_total),
       updated_at = now()
 WHERE id = $1
RETURNING quantity_available, quantity_total, status,
          (SELECT quantity_available FROM before)`

func (r *ItemRepository) ReturnUnits(ctx context.Context, id uuid.UUID, qty int32) (shared.ItemCounters, int32, error) {
	var (
		counters shared.ItemCounters
		status   string
		before   int32
	)
	err := r.db.QueryRow(ctx, returnUnitsSQL, id, qty).
		Scan(&counters.Available, &counters.Total, &status, &before)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return shared.ItemCounters{}, 0, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return shared.ItemCounters{}, 0, infra.WrapRepoErr("failed to return units", err)
	}
	counters.Status = domainitem.Status(status)

	surplus := before + qty - counters.Available
	if surplus < 0 {
		surplus = 0
	}
	return counters, surplus, nil
}

// Shrinking below the checked-out count would strand units that are
// physically out; the guard refuses it.
const adjustTotalSQL = `
UPDATE items
   SET quantity_available = $2 - (quantity_total - quantity_available),
       quantity_total = $2,
       updated_at = now()
 WHERE id = $1
   AND quantity_total - quantity_available <= $2
RETURNING quantity_available, quantity_total, status`

func (r *ItemRepository) AdjustTotal(ctx context.Context, id uuid.UUID, newTotal int32) (shared.ItemCounters, error) {
	counters, err := r.scanCounters(r.db.QueryRow(ctx, adjustTotalSQL, id, newTotal))
	if err == nil {
		return counters, nil
	}
	if !pgconv.IsNoRows(err) {
		return shared.ItemCounters{}, infra.WrapRepoErr("failed to adjust total", err)
	}
	return shared.ItemCounters{}, r.classifyGuardMiss(ctx, id, "total below checked-out count")
}

const setItemStatusSQL = `
UPDATE items SET status = $2, updated_at = now() WHERE id = $1`

func (r *ItemRepository) SetStatus(ctx context.Context, id uuid.UUID, status domainitem.Status) error {
	tag, err := r.db.Exec(ctx, setItemStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set item status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ItemRepository) scanCounters(row rowScanner) (shared.ItemCounters, error) {
	var (
		counters shared.ItemCounters
		status   string
	)
	if err := row.Scan(&counters.Available, &counters.Total, &status); err != nil {
		return shared.ItemCounters{}, err
	}
	counters.Status = domainitem.Status(status)
	return counters, nil
}

// classifyGuardMiss distinguishes a missing row from one the conditional
// update's guard excluded.
func (r *ItemRepository) classifyGuardMiss(ctx context.Context, id uuid.UUID, reason string) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM items WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to classify conditional update miss", err)
	}
	if domainitem.Status(status).IsAdministrative() {
		return infra.WrapRepoErr("item is "+status, nil, infra.KindUnavailable)
	}
	return infra.WrapRepoErr(reason, nil, infra.KindConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}
