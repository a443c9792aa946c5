package queries

import (
	"context"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BookingView, error)
	ListVehicles(ctx context.Context) ([]*VehicleView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*BookingView, error)
	FindAllVehicles(ctx context.Context) ([]*VehicleView, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BookingView, error) {
	return q.repo.FindByRequesterID(ctx, requesterID)
}

func (q *bookingQueriesImpl) ListVehicles(ctx context.Context) ([]*VehicleView, error) {
	return q.repo.FindAllVehicles(ctx)
}
