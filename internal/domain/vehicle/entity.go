package vehicle

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyLabel = errors.New("vehicle label cannot be empty")

type Status string

const (
	StatusActive     Status = "active"
	StatusCheckedOut Status = "checked_out"
	StatusRetired    Status = "retired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCheckedOut, StatusRetired:
		return true
	default:
		return false
	}
}

// Vehicle is indivisible: it is assigned to at most one booking at a time
// and never fractionally shared.
type Vehicle struct {
	id        uuid.UUID
	label     string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewVehicle(label string) (*Vehicle, error) {
	if label == "" {
		return nil, ErrEmptyLabel
	}
	return &Vehicle{
		id:     uuid.New(),
		label:  label,
		status: StatusActive,
	}, nil
}

func ReconstructVehicle(id uuid.UUID, label string, status Status, createdAt, updatedAt time.Time) *Vehicle {
	return &Vehicle{
		id:        id,
		label:     label,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (v *Vehicle) IsRetired() bool {
	return v.status == StatusRetired
}

func (v *Vehicle) ID() uuid.UUID        { return v.id }
func (v *Vehicle) Label() string        { return v.label }
func (v *Vehicle) Status() Status       { return v.status }
func (v *Vehicle) CreatedAt() time.Time { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time { return v.updatedAt }
