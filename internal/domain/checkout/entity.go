package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoLines         = errors.New("checkout request needs at least one line")
	ErrInvalidQuantity = errors.New("line quantity must be positive")
	ErrNotPending      = errors.New("request is not pending")
	ErrNotApproved     = errors.New("request is not approved")
	ErrNotCheckedOut   = errors.New("request is not checked out")
	ErrNotAwaiting     = errors.New("request has no pending check-in")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCheckedOut Status = "checked_out"
	StatusReturned   Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCheckedOut, StatusReturned:
		return true
	default:
		return false
	}
}

// Line is one (item, quantity) pair of a request. Units are indivisible,
// so quantity is a whole count.
type Line struct {
	ItemID   uuid.UUID
	Quantity int32
}

// Request is owned by the requester until approval; the approved quantities
// are then owned by the inventory ledger until returned.
type Request struct {
	id             uuid.UUID
	requesterID    uuid.UUID
	lines          []Line
	status         Status
	pendingCheckIn bool
	createdAt      time.Time
	updatedAt      time.Time
}

func NewRequest(requesterID uuid.UUID, lines []Line) (*Request, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	return &Request{
		id:          uuid.New(),
		requesterID: requesterID,
		lines:       lines,
		status:      StatusPending,
	}, nil
}

func ReconstructRequest(
	id, requesterID uuid.UUID,
	lines []Line,
	status Status,
	pendingCheckIn bool,
	createdAt, updatedAt time.Time,
) *Request {
	return &Request{
		id:             id,
		requesterID:    requesterID,
		lines:          lines,
		status:         status,
		pendingCheckIn: pendingCheckIn,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (r *Request) Approve() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusApproved
	return nil
}

func (r *Request) Reject() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusRejected
	return nil
}

func (r *Request) MarkCheckedOut() error {
	if r.status != StatusApproved {
		return ErrNotApproved
	}
	r.status = StatusCheckedOut
	return nil
}

// MarkReturned records that the units came back. The request stays flagged
// for check-in until staff inspect the returned gear.
func (r *Request) MarkReturned() error {
	if r.status != StatusCheckedOut {
		return ErrNotCheckedOut
	}
	r.status = StatusReturned
	r.pendingCheckIn = true
	return nil
}

func (r *Request) ConfirmCheckIn() error {
	if !r.pendingCheckIn {
		return ErrNotAwaiting
	}
	r.pendingCheckIn = false
	return nil
}

// HoldsUnits reports whether the request currently accounts for decremented
// item counters.
func (r *Request) HoldsUnits() bool {
	return r.status == StatusApproved || r.status == StatusCheckedOut
}

func (r *Request) ID() uuid.UUID          { return r.id }
func (r *Request) RequesterID() uuid.UUID { return r.requesterID }
func (r *Request) Lines() []Line          { return r.lines }
func (r *Request) Status() Status         { return r.status }
func (r *Request) PendingCheckIn() bool   { return r.pendingCheckIn }
func (r *Request) CreatedAt() time.Time   { return r.createdAt }
func (r *Request) UpdatedAt() time.Time   { return r.updatedAt }
