package commands

import (
	"context"
	"fmt"
	"log/slog"

	"gearpool/internal/domain/item"
	"gearpool/internal/pkg/errs"
	"gearpool/internal/usecase/queries"
	"gearpool/internal/usecase/shared"
)

// Issue codes reported by validation and reconciliation.
const (
	IssueStalePartiallyAvailable = "stale_partially_available"
	IssueStaleCheckedOut         = "stale_checked_out"
	IssueStalePendingCheckIn     = "stale_pending_check_in"
	IssueStatusDrift             = "status_drift"
	IssueCountersOutOfBounds     = "counters_out_of_bounds"
	IssueOrphanedCheckout        = "orphaned_checkout"
)

type ValidationReport struct {
	ValidCount int                 `json:"valid_count"`
	Issues     []queries.IssueView `json:"issues"`
}

type RepairReport struct {
	FixedCount      int                 `json:"fixed_count"`
	RemainingIssues []queries.IssueView `json:"remaining_issues"`
}

type ReconcilerCommands interface {
	// Validate reports drift without writing anything.
	Validate(ctx context.Context) (*ValidationReport, error)
	// Reconcile rewrites each drifted status from the trusted counters.
	// Running it twice without intervening mutations fixes nothing the
	// second time. Counter corruption is reported, never auto-corrected.
	Reconcile(ctx context.Context) (*RepairReport, error)
}

type reconcilerCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewReconcilerCommands(uow shared.UnitOfWork) ReconcilerCommands {
	return &reconcilerCommandsImpl{uow: uow}
}

func (r *reconcilerCommandsImpl) Validate(ctx context.Context) (*ValidationReport, error) {
	report := &ValidationReport{Issues: []queries.IssueView{}}

	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		rows, err := reads.ItemReconRows(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, row := range rows {
			if d := diagnoseItem(row); d != nil {
				report.Issues = append(report.Issues, d.issue)
			} else {
				report.ValidCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reconcilerCommandsImpl) Reconcile(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{RemainingIssues: []queries.IssueView{}}

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, err := tx.Reads().ItemReconRows(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		report.FixedCount = 0
		report.RemainingIssues = report.RemainingIssues[:0]

		for _, row := range rows {
			d := diagnoseItem(row)
			if d == nil {
				continue
			}
			if !d.repairable {
				report.RemainingIssues = append(report.RemainingIssues, d.issue)
				continue
			}

			if err := tx.Items().SetStatus(ctx, row.ItemID, d.target); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			slog.Info("repaired drifted item status",
				"item_id", row.ItemID.String(),
				"from", row.Status.String(),
				"to", d.target.String())
			report.FixedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type itemDiagnosis struct {
	issue      queries.IssueView
	target     item.Status
	repairable bool
}

// diagnoseItem compares the stored status against the one the counters
// imply. Administrative states are never questioned; counters outside
// physical bounds are flagged for manual review because no target value can
// be trusted.
func diagnoseItem(row shared.ItemReconRow) *itemDiagnosis {
	if row.Status.IsAdministrative() {
		return nil
	}

	if row.Available < 0 || row.Available > row.Total {
		return &itemDiagnosis{
			issue: newIssue(row, IssueCountersOutOfBounds, false,
				fmt.Sprintf("available count %d violates bounds [0, %d]; manual review required", row.Available, row.Total)),
		}
	}

	target := item.Project(row.Available, row.Total, row.PendingCheckIns > 0)

	if row.Status == item.StatusCheckedOut && row.OutstandingLines == 0 && target == item.StatusCheckedOut {
		// The label agrees with the counters but nothing accounts for the
		// missing units: the counters themselves are suspect.
		return &itemDiagnosis{
			issue: newIssue(row, IssueOrphanedCheckout, false,
				"marked checked out with no outstanding checkout lines; counters need manual review"),
		}
	}

	if target == row.Status {
		return nil
	}

	code := IssueStatusDrift
	var detail string
	switch {
	case row.Status == item.StatusPartiallyAvailable && row.Available == row.Total:
		code = IssueStalePartiallyAvailable
		detail = fmt.Sprintf("marked partially available but all %d units are in; should be %s", row.Total, target)
	case row.Status == item.StatusCheckedOut && row.OutstandingLines == 0:
		code = IssueStaleCheckedOut
		detail = fmt.Sprintf("marked checked out with no outstanding checkout lines; should be %s", target)
	case row.Status == item.StatusPendingCheckIn && row.PendingCheckIns == 0:
		code = IssueStalePendingCheckIn
		detail = fmt.Sprintf("marked pending check-in with no pending check-in records; should be %s", target)
	default:
		detail = fmt.Sprintf("stored status %s disagrees with counters; should be %s", row.Status, target)
	}

	return &itemDiagnosis{
		issue:      newIssue(row, code, true, detail),
		target:     target,
		repairable: true,
	}
}

func newIssue(row shared.ItemReconRow, code string, repairable bool, detail string) queries.IssueView {
	return queries.IssueView{
		ItemID:     row.ItemID,
		ItemName:   row.Name,
		Code:       code,
		Detail:     detail,
		Status:     row.Status.String(),
		Available:  row.Available,
		Total:      row.Total,
		Repairable: repairable,
	}
}
