//go:build unit

package commands_test

import (
	"context"
	"testing"

	"gearpool/internal/domain/checkout"
	"gearpool/internal/domain/item"
	"gearpool/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCommands_Submit(t *testing.T) {
	t.Run("stores a pending request", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		itemID := uuid.New()

		id, err := checkouts.Submit(context.Background(), uuid.New(), []checkout.Line{{ItemID: itemID, Quantity: 2}})
		require.NoError(t, err)

		row := state.checkouts[id]
		require.NotNil(t, row)
		assert.Equal(t, checkout.StatusPending, row.status)
		assert.False(t, row.pendingCheckIn)
	})

	t.Run("rejects empty or non-positive lines", func(t *testing.T) {
		checkouts := commands.NewCheckoutCommands(newFakeUoW(newFakeState()))

		_, err := checkouts.Submit(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, commands.ErrInvalidQuantity)

		_, err = checkouts.Submit(context.Background(), uuid.New(), []checkout.Line{{ItemID: uuid.New(), Quantity: 0}})
		assert.ErrorIs(t, err, commands.ErrInvalidQuantity)
	})
}

func TestCheckoutCommands_Approve(t *testing.T) {
	t.Run("reserves every line and approves the request", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		laptops := state.addItem(5, 5, item.StatusAvailable)
		radios := state.addItem(2, 2, item.StatusAvailable)
		reqID := state.addCheckout(checkout.StatusPending, false,
			checkout.Line{ItemID: laptops, Quantity: 3},
			checkout.Line{ItemID: radios, Quantity: 2},
		)

		require.NoError(t, checkouts.Approve(context.Background(), reqID))

		assert.Equal(t, checkout.StatusApproved, state.checkouts[reqID].status)
		assert.Equal(t, int32(2), state.items[laptops].available)
		assert.Equal(t, item.StatusPartiallyAvailable, state.items[laptops].status)
		assert.Equal(t, int32(0), state.items[radios].available)
		assert.Equal(t, item.StatusCheckedOut, state.items[radios].status)
	})

	t.Run("a failing line aborts the approval", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		plenty := state.addItem(5, 5, item.StatusAvailable)
		scarce := state.addItem(1, 3, item.StatusPartiallyAvailable)
		reqID := state.addCheckout(checkout.StatusPending, false,
			checkout.Line{ItemID: plenty, Quantity: 1},
			checkout.Line{ItemID: scarce, Quantity: 2},
		)

		err := checkouts.Approve(context.Background(), reqID)
		assert.ErrorIs(t, err, commands.ErrInsufficientAvailability)

		// The request never reaches approved; the real store additionally
		// rolls back the first line's decrement with the transaction.
		assert.Equal(t, checkout.StatusPending, state.checkouts[reqID].status)
	})

	t.Run("only pending requests can be approved", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		reqID := state.addCheckout(checkout.StatusRejected, false, checkout.Line{ItemID: uuid.New(), Quantity: 1})

		err := checkouts.Approve(context.Background(), reqID)
		assert.ErrorIs(t, err, commands.ErrRequestNotPending)
	})

	t.Run("missing request is reported", func(t *testing.T) {
		checkouts := commands.NewCheckoutCommands(newFakeUoW(newFakeState()))
		err := checkouts.Approve(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrRequestNotFound)
	})
}

func TestCheckoutCommands_Lifecycle(t *testing.T) {
	t.Run("return raises the pending check-in flag before counters settle", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		itemID := state.addItem(5, 5, item.StatusAvailable)
		reqID := state.addCheckout(checkout.StatusPending, false, checkout.Line{ItemID: itemID, Quantity: 2})

		require.NoError(t, checkouts.Approve(context.Background(), reqID))
		require.NoError(t, checkouts.MarkCheckedOut(context.Background(), reqID))

		report, err := checkouts.Return(context.Background(), reqID)
		require.NoError(t, err)
		require.Len(t, report.Lines, 1)
		assert.False(t, report.HasAnomalies())

		// Units are back in the pool but the item stays pending check-in
		// until an operator inspects the return.
		assert.True(t, state.checkouts[reqID].pendingCheckIn)
		assert.Equal(t, int32(5), state.items[itemID].available)
		assert.Equal(t, item.StatusPendingCheckIn, state.items[itemID].status)
	})

	t.Run("confirming the check-in releases the projected flag", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		itemID := state.addItem(5, 5, item.StatusAvailable)
		reqID := state.addCheckout(checkout.StatusPending, false, checkout.Line{ItemID: itemID, Quantity: 2})

		require.NoError(t, checkouts.Approve(context.Background(), reqID))
		require.NoError(t, checkouts.MarkCheckedOut(context.Background(), reqID))
		_, err := checkouts.Return(context.Background(), reqID)
		require.NoError(t, err)

		require.NoError(t, checkouts.ConfirmCheckIn(context.Background(), reqID))

		assert.False(t, state.checkouts[reqID].pendingCheckIn)
		assert.Equal(t, item.StatusAvailable, state.items[itemID].status)

		// The per-item refresh projects a status, so it must come from
		// the locking read.
		assert.NotZero(t, state.lockedItemReads)

		// Check-in happens once.
		assert.ErrorIs(t, checkouts.ConfirmCheckIn(context.Background(), reqID), commands.ErrNothingToCheckIn)
	})

	t.Run("a request-level over-return surfaces in the report", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		// Someone already slipped one extra unit back into the pool, so
		// returning the full line overshoots the total.
		itemID := state.addItem(4, 5, item.StatusPartiallyAvailable)
		reqID := state.addCheckout(checkout.StatusCheckedOut, false, checkout.Line{ItemID: itemID, Quantity: 2})

		report, err := checkouts.Return(context.Background(), reqID)
		require.NoError(t, err)
		assert.True(t, report.HasAnomalies())
		require.Len(t, report.Lines, 1)
		assert.Equal(t, int32(1), report.Lines[0].Surplus)
		assert.Equal(t, int32(5), state.items[itemID].available)
	})

	t.Run("illegal transitions are refused", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		itemID := state.addItem(5, 5, item.StatusAvailable)
		pending := state.addCheckout(checkout.StatusPending, false, checkout.Line{ItemID: itemID, Quantity: 1})
		approved := state.addCheckout(checkout.StatusApproved, false, checkout.Line{ItemID: itemID, Quantity: 1})

		assert.ErrorIs(t, checkouts.MarkCheckedOut(context.Background(), pending), commands.ErrRequestNotApproved)
		_, err := checkouts.Return(context.Background(), approved)
		assert.ErrorIs(t, err, commands.ErrRequestNotCheckedOut)
		assert.ErrorIs(t, checkouts.Reject(context.Background(), approved), commands.ErrRequestNotPending)
	})

	t.Run("reject closes a pending request without touching counters", func(t *testing.T) {
		state := newFakeState()
		checkouts := commands.NewCheckoutCommands(newFakeUoW(state))
		itemID := state.addItem(5, 5, item.StatusAvailable)
		reqID := state.addCheckout(checkout.StatusPending, false, checkout.Line{ItemID: itemID, Quantity: 2})

		require.NoError(t, checkouts.Reject(context.Background(), reqID))

		assert.Equal(t, checkout.StatusRejected, state.checkouts[reqID].status)
		assert.Equal(t, int32(5), state.items[itemID].available)
	})
}
