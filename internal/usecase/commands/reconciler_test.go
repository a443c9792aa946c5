//go:build unit

package commands_test

import (
	"context"
	"testing"

	"gearpool/internal/domain/checkout"
	"gearpool/internal/domain/item"
	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerCommands_Validate(t *testing.T) {
	t.Run("a consistent ledger reports no issues", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		state.addItem(5, 5, item.StatusAvailable)
		state.addItem(2, 5, item.StatusPartiallyAvailable)
		drained := state.addItem(0, 3, item.StatusCheckedOut)
		state.addCheckout(checkout.StatusCheckedOut, false, checkout.Line{ItemID: drained, Quantity: 3})

		report, err := recon.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, report.ValidCount)
		assert.Empty(t, report.Issues)
	})

	t.Run("flags stale statuses without writing anything", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		stale := state.addItem(5, 5, item.StatusPartiallyAvailable)

		report, err := recon.Validate(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Issues, 1)

		expected := queries.IssueView{
			ItemID:     stale,
			ItemName:   state.items[stale].name,
			Code:       commands.IssueStalePartiallyAvailable,
			Status:     "partially_available",
			Available:  5,
			Total:      5,
			Repairable: true,
		}
		if diff := cmp.Diff(expected, report.Issues[0], cmpopts.IgnoreFields(queries.IssueView{}, "Detail")); diff != "" {
			t.Errorf("issue mismatch (-expected +actual):\n%s", diff)
		}

		// Validate is strictly read-only.
		assert.Equal(t, item.StatusPartiallyAvailable, state.items[stale].status)
	})

	t.Run("counters outside physical bounds are never repairable", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		state.addItem(7, 5, item.StatusAvailable)

		report, err := recon.Validate(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, commands.IssueCountersOutOfBounds, report.Issues[0].Code)
		assert.False(t, report.Issues[0].Repairable)
	})

	t.Run("administrative states are never questioned", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		// Counters alone would project checked_out, but retired wins.
		state.addItem(0, 5, item.StatusRetired)
		state.addItem(2, 5, item.StatusUnderRepair)

		report, err := recon.Validate(context.Background())
		require.NoError(t, err)
		assert.Empty(t, report.Issues)
	})

	t.Run("checked out with no outstanding lines is suspect", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		state.addItem(0, 5, item.StatusCheckedOut)

		report, err := recon.Validate(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, commands.IssueOrphanedCheckout, report.Issues[0].Code)
		assert.False(t, report.Issues[0].Repairable)
	})
}

func TestReconcilerCommands_Reconcile(t *testing.T) {
	t.Run("rewrites drifted statuses from the counters", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		stalePartial := state.addItem(5, 5, item.StatusPartiallyAvailable)
		staleCheckedOut := state.addItem(3, 3, item.StatusCheckedOut)
		stalePending := state.addItem(4, 4, item.StatusPendingCheckIn)
		healthy := state.addItem(1, 4, item.StatusPartiallyAvailable)

		report, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, report.FixedCount)
		assert.Empty(t, report.RemainingIssues)

		assert.Equal(t, item.StatusAvailable, state.items[stalePartial].status)
		assert.Equal(t, item.StatusAvailable, state.items[staleCheckedOut].status)
		assert.Equal(t, item.StatusAvailable, state.items[stalePending].status)
		assert.Equal(t, item.StatusPartiallyAvailable, state.items[healthy].status)
	})

	t.Run("running twice fixes nothing the second time", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		state.addItem(5, 5, item.StatusPartiallyAvailable)

		first, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, first.FixedCount)

		second, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, second.FixedCount)
		assert.Empty(t, second.RemainingIssues)
	})

	t.Run("corrupt counters are reported unfixed", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		corrupt := state.addItem(7, 5, item.StatusAvailable)

		report, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.FixedCount)
		require.Len(t, report.RemainingIssues, 1)
		assert.Equal(t, commands.IssueCountersOutOfBounds, report.RemainingIssues[0].Code)

		// Counters and status are left exactly as found.
		assert.Equal(t, int32(7), state.items[corrupt].available)
		assert.Equal(t, int32(5), state.items[corrupt].total)
		assert.Equal(t, item.StatusAvailable, state.items[corrupt].status)
	})

	t.Run("administrative states survive reconciliation", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		retired := state.addItem(0, 5, item.StatusRetired)
		underRepair := state.addItem(2, 5, item.StatusUnderRepair)

		report, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.FixedCount)
		assert.Equal(t, item.StatusRetired, state.items[retired].status)
		assert.Equal(t, item.StatusUnderRepair, state.items[underRepair].status)
	})

	t.Run("pending check-in records keep the projected flag alive", func(t *testing.T) {
		state := newFakeState()
		recon := commands.NewReconcilerCommands(newFakeUoW(state))
		// All units in but a return still awaits inspection; the stored
		// available status is the stale one.
		id := state.addItem(4, 4, item.StatusAvailable)
		state.addCheckout(checkout.StatusReturned, true, checkout.Line{ItemID: id, Quantity: 2})

		report, err := recon.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.FixedCount)
		assert.Equal(t, item.StatusPendingCheckIn, state.items[id].status)
	})
}
