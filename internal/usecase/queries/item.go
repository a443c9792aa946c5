package queries

import (
	"context"

	"github.com/google/uuid"
)

type ItemQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	List(ctx context.Context) ([]*ItemView, error)
}

type ItemViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	FindAll(ctx context.Context) ([]*ItemView, error)
}

type itemQueriesImpl struct {
	repo ItemViewRepo
}

func NewItemQueries(repo ItemViewRepo) ItemQueries {
	return &itemQueriesImpl{repo: repo}
}

func (q *itemQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *itemQueriesImpl) List(ctx context.Context) ([]*ItemView, error) {
	return q.repo.FindAll(ctx)
}
