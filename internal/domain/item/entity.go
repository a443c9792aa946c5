package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName          = errors.New("item name cannot be empty")
	ErrNegativeQuantity   = errors.New("quantity cannot be negative")
	ErrCountersOutOfRange = errors.New("available count out of physical bounds")
)

type Item struct {
	id                uuid.UUID
	name              string
	quantityTotal     int32
	quantityAvailable int32
	status            Status
	createdAt         time.Time
	updatedAt         time.Time
}

// NewItem creates a fresh pool of interchangeable units. Every unit starts
// available.
func NewItem(name string, quantityTotal int32) (*Item, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if quantityTotal < 0 {
		return nil, ErrNegativeQuantity
	}

	return &Item{
		id:                uuid.New(),
		name:              name,
		quantityTotal:     quantityTotal,
		quantityAvailable: quantityTotal,
		status:            Project(quantityTotal, quantityTotal, false),
	}, nil
}

func ReconstructItem(
	id uuid.UUID,
	name string,
	quantityTotal, quantityAvailable int32,
	status Status,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:                id,
		name:              name,
		quantityTotal:     quantityTotal,
		quantityAvailable: quantityAvailable,
		status:            status,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// CountersInBounds reports whether 0 <= available <= total holds. A false
// result is a data-corruption signal, never something to repair blindly.
func (i *Item) CountersInBounds() bool {
	return i.quantityAvailable >= 0 && i.quantityAvailable <= i.quantityTotal
}

func (i *Item) CanFulfill(qty int32) bool {
	return qty > 0 && qty <= i.quantityAvailable
}

func (i *Item) CheckedOutCount() int32 {
	return i.quantityTotal - i.quantityAvailable
}

func (i *Item) ID() uuid.UUID            { return i.id }
func (i *Item) Name() string             { return i.name }
func (i *Item) QuantityTotal() int32     { return i.quantityTotal }
func (i *Item) QuantityAvailable() int32 { return i.quantityAvailable }
func (i *Item) Status() Status           { return i.status }
func (i *Item) CreatedAt() time.Time     { return i.createdAt }
func (i *Item) UpdatedAt() time.Time     { return i.updatedAt }
