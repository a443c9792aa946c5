package queries

import (
	"context"

	"github.com/google/uuid"
)

type CheckoutQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CheckoutRequestView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*CheckoutRequestView, error)
}

type CheckoutViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CheckoutRequestView, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*CheckoutRequestView, error)
}

type checkoutQueriesImpl struct {
	repo CheckoutViewRepo
}

func NewCheckoutQueries(repo CheckoutViewRepo) CheckoutQueries {
	return &checkoutQueriesImpl{repo: repo}
}

func (q *checkoutQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CheckoutRequestView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *checkoutQueriesImpl) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*CheckoutRequestView, error) {
	return q.repo.FindByRequesterID(ctx, requesterID)
}
