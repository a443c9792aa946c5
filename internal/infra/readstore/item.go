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

type ItemReadStore struct {
	db db.DBTX
}

func NewItemReadStore(dbtx db.DBTX) *ItemReadStore {
	return &ItemReadStore{db: dbtx}
}

const itemViewSQL = `
SELECT id, name, quantity_total, quantity_available, status, created_at, updated_at
  FROM items
 WHERE id = $1`

func (r *ItemReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ItemView, error) {
	view, err := scanItemView(r.db.QueryRow(ctx, itemViewSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find item by ID", err)
	}
	return view, nil
}

const itemListSQL = `
SELECT id, name, quantity_total, quantity_available, status, created_at, updated_at
  FROM items
 ORDER BY name, id`

func (r *ItemReadStore) FindAll(ctx context.Context) ([]*queries.ItemView, error) {
	rows, err := r.db.Query(ctx, itemListSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list items", err)
	}
	defer rows.Close()

	var result []*queries.ItemView
	for rows.Next() {
		view, err := scanItemView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan item row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate item rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItemView(row rowScanner) (*queries.ItemView, error) {
	var (
		view             queries.ItemView
		created, updated pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.Name, &view.QuantityTotal, &view.QuantityAvailable,
		&view.Status, &created, &updated)
	if err != nil {
		return nil, err
	}
	view.CreatedAt = pgconv.TimeFromPgtype(created)
	view.UpdatedAt = pgconv.TimeFromPgtype(updated)
	return &view, nil
}
