package commands

import "gearpool/internal/pkg/errs"

// Sentinel errors surfaced to handlers. Conflict-family errors carry enough
// detail for the caller to name the conflicting resource.
var (
	// Validation (rejected before any store access)
	ErrInvalidQuantity = errs.New("quantity must be positive")
	ErrInvalidTotal    = errs.New("total must be non-negative")

	// Inventory ledger
	ErrItemNotFound             = errs.New("item not found")
	ErrItemUnavailable          = errs.New("item is retired or under repair")
	ErrInsufficientAvailability = errs.New("insufficient availability")
	ErrInvalidAdjustment        = errs.New("total cannot shrink below checked-out count")

	// Checkout lifecycle
	ErrRequestNotFound      = errs.New("checkout request not found")
	ErrRequestNotPending    = errs.New("checkout request is not pending")
	ErrRequestNotApproved   = errs.New("checkout request is not approved")
	ErrRequestNotCheckedOut = errs.New("checkout request is not checked out")
	ErrNothingToCheckIn     = errs.New("checkout request has no pending check-in")

	// Booking intake
	ErrDateInPast = errs.New("date of use is in the past")

	// Vehicle allocation
	ErrVehicleNotFound    = errs.New("vehicle not found")
	ErrVehicleUnavailable = errs.New("vehicle unavailable")
	ErrSlotConflict       = errs.New("vehicle already assigned for this slot")
	ErrVehicleLocked      = errs.New("vehicle locked by an outstanding booking")
	ErrBookingNotFound    = errs.New("booking not found")
	ErrBookingNotApproved = errs.New("booking is not approved")
	ErrBookingFinalized   = errs.New("booking is already finalized")
	ErrAssignmentNotFound = errs.New("assignment not found")

	// Infrastructure
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
