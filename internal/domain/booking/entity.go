package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending  = errors.New("booking is not pending")
	ErrNotApproved = errors.New("booking is not approved")
	ErrFinalized   = errors.New("booking is already finalized")
)

// Booking is a request for a vehicle on a given slot. It holds no vehicle
// until an assignment is created for it.
type Booking struct {
	id          uuid.UUID
	requesterID uuid.UUID
	slot        UseSlot
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewBooking(requesterID uuid.UUID, slot UseSlot) *Booking {
	return &Booking{
		id:          uuid.New(),
		requesterID: requesterID,
		slot:        slot,
		status:      StatusPending,
	}
}

func ReconstructBooking(
	id, requesterID uuid.UUID,
	slot UseSlot,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		requesterID: requesterID,
		slot:        slot,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Booking) Approve() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusApproved
	return nil
}

func (b *Booking) Reject() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusRejected
	return nil
}

func (b *Booking) Cancel() error {
	switch b.status {
	case StatusPending, StatusApproved:
		b.status = StatusCancelled
		return nil
	default:
		return ErrFinalized
	}
}

func (b *Booking) Complete() error {
	if b.status != StatusApproved {
		return ErrNotApproved
	}
	b.status = StatusCompleted
	return nil
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) RequesterID() uuid.UUID { return b.requesterID }
func (b *Booking) Slot() UseSlot          { return b.slot }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
