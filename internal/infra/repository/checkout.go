package repository

import (
	"context"

	"gearpool/internal/domain/checkout"
	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CheckoutRepository struct {
	db db.DBTX
}

func NewCheckoutRepository(dbtx db.DBTX) *CheckoutRepository {
	return &CheckoutRepository{db: dbtx}
}

const createCheckoutSQL = `
INSERT INTO checkout_requests (id, requester_id, status, pending_check_in, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`

const createCheckoutLineSQL = `
INSERT INTO checkout_lines (request_id, item_id, quantity)
VALUES ($1, $2, $3)`

func (r *CheckoutRepository) Create(ctx context.Context, req *checkout.Request) error {
	_, err := r.db.Exec(ctx, createCheckoutSQL,
		req.ID(), req.RequesterID(), req.Status().String(), req.PendingCheckIn())
	if err != nil {
		return infra.WrapRepoErr("failed to create checkout request", err)
	}
	for _, line := range req.Lines() {
		_, err := r.db.Exec(ctx, createCheckoutLineSQL, req.ID(), line.ItemID, line.Quantity)
		if err != nil {
			if infra.IsPgError(err, infra.PgForeignKeyViolation) {
				return infra.WrapRepoErr("line item does not exist", err, infra.KindForeignKeyViolated)
			}
			return infra.WrapRepoErr("failed to create checkout line", err)
		}
	}
	return nil
}

const findCheckoutSQL = `
SELECT id, requester_id, status, pending_check_in, created_at, updated_at
  FROM checkout_requests
 WHERE id = $1`

const findCheckoutLinesSQL = `
SELECT item_id, quantity FROM checkout_lines WHERE request_id = $1 ORDER BY item_id`

func (r *CheckoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Request, error) {
	var (
		requestID, requesterID uuid.UUID
		status                 string
		pendingCheckIn         bool
		created, updated       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findCheckoutSQL, id).
		Scan(&requestID, &requesterID, &status, &pendingCheckIn, &created, &updated)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("checkout request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find checkout request", err)
	}

	rows, err := r.db.Query(ctx, findCheckoutLinesSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load checkout lines", err)
	}
	defer rows.Close()

	var lines []checkout.Line
	for rows.Next() {
		var line checkout.Line
		if err := rows.Scan(&line.ItemID, &line.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan checkout line", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate checkout lines", err)
	}

	return checkout.ReconstructRequest(
		requestID, requesterID, lines,
		checkout.Status(status), pendingCheckIn,
		pgconv.TimeFromPgtype(created), pgconv.TimeFromPgtype(updated),
	), nil
}

const updateCheckoutStatusSQL = `
UPDATE checkout_requests
   SET status = $2, pending_check_in = $3, updated_at = now()
 WHERE id = $1`

func (r *CheckoutRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status checkout.Status, pendingCheckIn bool) error {
	tag, err := r.db.Exec(ctx, updateCheckoutStatusSQL, id, status.String(), pendingCheckIn)
	if err != nil {
		return infra.WrapRepoErr("failed to update checkout status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("checkout request not found", nil, infra.KindNotFound)
	}
	return nil
}

const pendingCheckInCountSQL = `
SELECT count(*)
  FROM checkout_lines l
  JOIN checkout_requests r ON r.id = l.request_id
 WHERE l.item_id = $1
   AND r.pending_check_in`

func (r *CheckoutRepository) PendingCheckInCount(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, pendingCheckInCountSQL, itemID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count pending check-ins", err)
	}
	return n, nil
}
