//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gearpool/internal/domain/booking"
	"gearpool/internal/domain/vehicle"
	"gearpool/internal/infra"
	"gearpool/internal/pkg/clock"
	"gearpool/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	useDate      = time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	otherUseDate = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
)

func TestAllocatorCommands_AssignVehicle(t *testing.T) {
	t.Run("grants a free vehicle and marks it checked out", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))

		assert.Equal(t, vehicleID, state.assignments[bookingID])
		assert.Equal(t, vehicle.StatusCheckedOut, state.vehicles[vehicleID].status)
	})

	t.Run("missing vehicle is unavailable", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		err := allocator.AssignVehicle(context.Background(), bookingID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrVehicleUnavailable)
	})

	t.Run("retired vehicle is unavailable", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusRetired)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		err := allocator.AssignVehicle(context.Background(), bookingID, vehicleID)
		assert.ErrorIs(t, err, commands.ErrVehicleUnavailable)
	})

	t.Run("missing booking is reported before conflicts", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)

		err := allocator.AssignVehicle(context.Background(), uuid.New(), vehicleID)
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("only approved bookings may hold a vehicle", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)

		for _, status := range []booking.Status{booking.StatusPending, booking.StatusRejected, booking.StatusCancelled, booking.StatusCompleted} {
			bookingID := state.addBooking(status, useDate, "09:00-12:00")
			err := allocator.AssignVehicle(context.Background(), bookingID, vehicleID)
			assert.ErrorIs(t, err, commands.ErrBookingNotApproved, "status %s", status)
		}
	})

	t.Run("identical date and slot is a slot conflict naming the holder", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusCheckedOut)
		holderID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		state.assignments[holderID] = vehicleID
		contenderID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		err := allocator.AssignVehicle(context.Background(), contenderID, vehicleID)
		require.ErrorIs(t, err, commands.ErrSlotConflict)

		var conflict *commands.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, holderID, conflict.Detail.HeldByBookingID)
		assert.Equal(t, "2026-07-14", conflict.Detail.DateOfUse)
		assert.Equal(t, "09:00-12:00", conflict.Detail.TimeSlot)
		assert.True(t, conflict.Detail.SameSlot)

		// Nothing was granted.
		_, ok := state.assignments[contenderID]
		assert.False(t, ok)
	})

	t.Run("any other outstanding booking locks the vehicle outright", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusCheckedOut)
		holderID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		state.assignments[holderID] = vehicleID
		contenderID := state.addBooking(booking.StatusApproved, otherUseDate, "13:00-17:00")

		err := allocator.AssignVehicle(context.Background(), contenderID, vehicleID)
		require.ErrorIs(t, err, commands.ErrVehicleLocked)

		var conflict *commands.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, holderID, conflict.Detail.HeldByBookingID)
		assert.True(t, conflict.Detail.OutstandingOnly)
		assert.False(t, conflict.Detail.SameSlot)
	})

	t.Run("finalized holders do not block a new assignment", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		formerID := state.addBooking(booking.StatusCompleted, useDate, "09:00-12:00")
		state.assignments[formerID] = vehicleID
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))
		assert.Equal(t, vehicleID, state.assignments[bookingID])
	})

	t.Run("reassigning the same booking is idempotent", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))
		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))
		assert.Equal(t, vehicleID, state.assignments[bookingID])
	})

	t.Run("moving a booking to another vehicle releases the old one", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		firstID := state.addVehicle(vehicle.StatusActive)
		secondID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")

		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, firstID))
		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, secondID))

		assert.Equal(t, secondID, state.assignments[bookingID])
		assert.Equal(t, vehicle.StatusCheckedOut, state.vehicles[secondID].status)
		assert.Equal(t, vehicle.StatusActive, state.vehicles[firstID].status)
	})

	t.Run("losing the unique-constraint race degrades to vehicle locked", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		state.assignUpsertErr = infra.WrapRepoErr("duplicate active assignment", errors.New("23505"), infra.KindDuplicateKey)

		err := allocator.AssignVehicle(context.Background(), bookingID, vehicleID)
		assert.ErrorIs(t, err, commands.ErrVehicleLocked)
	})
}

func TestAllocatorCommands_UnassignVehicle(t *testing.T) {
	t.Run("drops the assignment and reactivates the vehicle", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))

		require.NoError(t, allocator.UnassignVehicle(context.Background(), bookingID))

		_, ok := state.assignments[bookingID]
		assert.False(t, ok)
		assert.Equal(t, vehicle.StatusActive, state.vehicles[vehicleID].status)
	})

	t.Run("missing assignment is reported", func(t *testing.T) {
		allocator := commands.NewAllocatorCommands(newFakeUoW(newFakeState()))
		err := allocator.UnassignVehicle(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrAssignmentNotFound)
	})

	t.Run("a retired vehicle stays retired after unassignment", func(t *testing.T) {
		state := newFakeState()
		allocator := commands.NewAllocatorCommands(newFakeUoW(state))
		vehicleID := state.addVehicle(vehicle.StatusRetired)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		state.assignments[bookingID] = vehicleID

		require.NoError(t, allocator.UnassignVehicle(context.Background(), bookingID))
		assert.Equal(t, vehicle.StatusRetired, state.vehicles[vehicleID].status)
	})
}

func TestBookingCommands_CustodyRelease(t *testing.T) {
	t.Run("completing a booking frees its vehicle", func(t *testing.T) {
		state := newFakeState()
		uow := newFakeUoW(state)
		allocator := commands.NewAllocatorCommands(uow)
		bookings := commands.NewBookingCommands(uow, clock.NewMockClock(useDate.AddDate(0, 0, -7)))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))

		require.NoError(t, bookings.Complete(context.Background(), bookingID))

		_, ok := state.assignments[bookingID]
		assert.False(t, ok)
		assert.Equal(t, vehicle.StatusActive, state.vehicles[vehicleID].status)
		assert.Equal(t, booking.StatusCompleted, state.bookings[bookingID].status)
	})

	t.Run("cancelling an assigned booking frees its vehicle", func(t *testing.T) {
		state := newFakeState()
		uow := newFakeUoW(state)
		allocator := commands.NewAllocatorCommands(uow)
		bookings := commands.NewBookingCommands(uow, clock.NewMockClock(useDate.AddDate(0, 0, -7)))
		vehicleID := state.addVehicle(vehicle.StatusActive)
		bookingID := state.addBooking(booking.StatusApproved, useDate, "09:00-12:00")
		require.NoError(t, allocator.AssignVehicle(context.Background(), bookingID, vehicleID))

		require.NoError(t, bookings.Cancel(context.Background(), bookingID))

		_, ok := state.assignments[bookingID]
		assert.False(t, ok)
		assert.Equal(t, vehicle.StatusActive, state.vehicles[vehicleID].status)
	})

	t.Run("cancelling an unassigned booking needs no release", func(t *testing.T) {
		state := newFakeState()
		bookings := commands.NewBookingCommands(newFakeUoW(state), clock.NewMockClock(useDate.AddDate(0, 0, -7)))
		bookingID := state.addBooking(booking.StatusPending, useDate, "09:00-12:00")

		require.NoError(t, bookings.Cancel(context.Background(), bookingID))
		assert.Equal(t, booking.StatusCancelled, state.bookings[bookingID].status)
	})

	t.Run("finalized bookings refuse further transitions", func(t *testing.T) {
		state := newFakeState()
		bookings := commands.NewBookingCommands(newFakeUoW(state), clock.NewMockClock(useDate.AddDate(0, 0, -7)))
		bookingID := state.addBooking(booking.StatusCompleted, useDate, "09:00-12:00")

		assert.ErrorIs(t, bookings.Approve(context.Background(), bookingID), commands.ErrBookingFinalized)
		assert.ErrorIs(t, bookings.Cancel(context.Background(), bookingID), commands.ErrBookingFinalized)
	})
}

func TestBookingCommands_Create(t *testing.T) {
	t.Run("stores a pending booking", func(t *testing.T) {
		state := newFakeState()
		bookings := commands.NewBookingCommands(newFakeUoW(state), clock.NewMockClock(useDate.AddDate(0, 0, -7)))

		id, err := bookings.Create(context.Background(), uuid.New(), useDate, "09:00-12:00")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, state.bookings[id].status)
	})

	t.Run("refuses a date in the past", func(t *testing.T) {
		state := newFakeState()
		bookings := commands.NewBookingCommands(newFakeUoW(state), clock.NewMockClock(useDate.AddDate(0, 0, 7)))

		_, err := bookings.Create(context.Background(), uuid.New(), useDate, "09:00-12:00")
		assert.ErrorIs(t, err, commands.ErrDateInPast)
	})

	t.Run("booking for today is allowed", func(t *testing.T) {
		state := newFakeState()
		bookings := commands.NewBookingCommands(newFakeUoW(state), clock.NewMockClock(useDate.Add(15*time.Hour)))

		_, err := bookings.Create(context.Background(), uuid.New(), useDate, "17:00-19:00")
		assert.NoError(t, err)
	})

	t.Run("rejects a malformed slot", func(t *testing.T) {
		bookings := commands.NewBookingCommands(newFakeUoW(newFakeState()), clock.NewMockClock(useDate.AddDate(0, 0, -7)))

		_, err := bookings.Create(context.Background(), uuid.New(), useDate, "9am-12pm")
		assert.ErrorIs(t, err, booking.ErrInvalidSlotFormat)
	})
}
