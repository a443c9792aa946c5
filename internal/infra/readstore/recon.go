package readstore

import (
	"context"

	domainitem "gearpool/internal/domain/item"
	"gearpool/internal/infra"
	"gearpool/internal/infra/db"
	"gearpool/internal/usecase/shared"
)

type ReconReadStore struct {
	db db.DBTX
}

func NewReconReadStore(dbtx db.DBTX) *ReconReadStore {
	return &ReconReadStore{db: dbtx}
}

// Every item is joined with the operational state needed to recompute its
// status from scratch: units still held by approved or checked-out requests,
// and returned lines awaiting inspection.
const itemReconRowsSQL = `
SELECT i.id, i.name, i.quantity_available, i.quantity_total, i.status,
       count(*) FILTER (WHERE r.status IN ('approved', 'checked_out')) AS outstanding_lines,
       count(*) FILTER (WHERE r.pending_check_in)                      AS pending_check_ins
  FROM items i
  LEFT JOIN checkout_lines l ON l.item_id = i.id
  LEFT JOIN checkout_requests r ON r.id = l.request_id
 GROUP BY i.id, i.name, i.quantity_available, i.quantity_total, i.status
 ORDER BY i.name, i.id`

func (r *ReconReadStore) ItemReconRows(ctx context.Context) ([]shared.ItemReconRow, error) {
	rows, err := r.db.Query(ctx, itemReconRowsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reconciliation rows", err)
	}
	defer rows.Close()

	var result []shared.ItemReconRow
	for rows.Next() {
		var (
			row    shared.ItemReconRow
			status string
		)
		err := rows.Scan(&row.ItemID, &row.Name, &row.Available, &row.Total, &status,
			&row.OutstandingLines, &row.PendingCheckIns)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reconciliation row", err)
		}
		row.Status = domainitem.Status(status)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reconciliation rows", err)
	}
	return result, nil
}
