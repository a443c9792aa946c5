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

type CheckoutReadStore struct {
	db db.DBTX
}

func NewCheckoutReadStore(dbtx db.DBTX) *CheckoutReadStore {
	return &CheckoutReadStore{db: dbtx}
}

const checkoutViewSQL = `
SELECT id, requester_id, status, pending_check_in, created_at, updated_at
  FROM checkout_requests
 WHERE id = $1`

func (r *CheckoutReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CheckoutRequestView, error) {
	view, err := scanCheckoutView(r.db.QueryRow(ctx, checkoutViewSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("checkout request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find checkout request by ID", err)
	}
	if err := r.attachLines(ctx, []*queries.CheckoutRequestView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

const checkoutsByRequesterSQL = `
SELECT id, requester_id, status, pending_check_in, created_at, updated_at
  FROM checkout_requests
 WHERE requester_id = $1
 ORDER BY created_at DESC`

func (r *CheckoutReadStore) FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*queries.CheckoutRequestView, error) {
	rows, err := r.db.Query(ctx, checkoutsByRequesterSQL, requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list checkout requests", err)
	}
	defer rows.Close()

	var result []*queries.CheckoutRequestView
	for rows.Next() {
		view, err := scanCheckoutView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan checkout row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate checkout rows", err)
	}

	if err := r.attachLines(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

const checkoutLinesSQL = `
SELECT l.request_id, l.item_id, i.name, l.quantity
  FROM checkout_lines l
  JOIN items i ON i.id = l.item_id
 WHERE l.request_id = ANY($1)
 ORDER BY l.request_id, i.name`

func (r *CheckoutReadStore) attachLines(ctx context.Context, views []*queries.CheckoutRequestView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(views))
	byID := make(map[uuid.UUID]*queries.CheckoutRequestView, len(views))
	for i, v := range views {
		ids[i] = v.ID
		byID[v.ID] = v
	}

	rows, err := r.db.Query(ctx, checkoutLinesSQL, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to load checkout lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			requestID uuid.UUID
			line      queries.CheckoutLineView
		)
		if err := rows.Scan(&requestID, &line.ItemID, &line.ItemName, &line.Quantity); err != nil {
			return infra.WrapRepoErr("failed to scan checkout line row", err)
		}
		if view, ok := byID[requestID]; ok {
			view.Lines = append(view.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate checkout line rows", err)
	}
	return nil
}

func scanCheckoutView(row rowScanner) (*queries.CheckoutRequestView, error) {
	var (
		view             queries.CheckoutRequestView
		created, updated pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.RequesterID, &view.Status, &view.PendingCheckIn, &created, &updated)
	if err != nil {
		return nil, err
	}
	view.CreatedAt = pgconv.TimeFromPgtype(created)
	view.UpdatedAt = pgconv.TimeFromPgtype(updated)
	return &view, nil
}
