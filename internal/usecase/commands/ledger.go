package commands

import (
	"context"

	"gearpool/internal/domain/item"
	"gearpool/internal/infra"
	"gearpool/internal/pkg/errs"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
)

// ReturnResult reports a completed return. A clamped surplus means the
// caller handed back more units than were checked out; the stock is accepted
// but the anomaly is surfaced rather than silently dropped.
type ReturnResult struct {
	ItemID    uuid.UUID
	Accepted  int32
	Surplus   int32
	NewStatus item.Status
}

func (r *ReturnResult) OverReturn() bool {
	return r.Surplus > 0
}

type LedgerCommands interface {
	CreateItem(ctx context.Context, name string, quantityTotal int32) (uuid.UUID, error)
	ApproveCheckout(ctx context.Context, itemID uuid.UUID, qty int32) error
	RegisterReturn(ctx context.Context, itemID uuid.UUID, qty int32) (*ReturnResult, error)
	AdjustTotal(ctx context.Context, itemID uuid.UUID, newTotal int32) error
	MarkUnderRepair(ctx context.Context, itemID uuid.UUID) error
	Retire(ctx context.Context, itemID uuid.UUID) error
	Reinstate(ctx context.Context, itemID uuid.UUID) error
}

type ledgerCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewLedgerCommands(uow shared.UnitOfWork) LedgerCommands {
	return &ledgerCommandsImpl{uow: uow}
}

func (l *ledgerCommandsImpl) CreateItem(ctx context.Context, name string, quantityTotal int32) (uuid.UUID, error) {
	it, err := item.NewItem(name, quantityTotal)
	if err != nil {
		return uuid.Nil, err
	}

	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Items().Create(ctx, it); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return it.ID(), nil
}

func (l *ledgerCommandsImpl) ApproveCheckout(ctx context.Context, itemID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		counters, err := reserveItemUnits(ctx, tx, itemID, qty)
		if err != nil {
			return err
		}
		_, err = projectAndStore(ctx, tx, itemID, counters)
		return err
	})
}

func (l *ledgerCommandsImpl) RegisterReturn(ctx context.Context, itemID uuid.UUID, qty int32) (*ReturnResult, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *ReturnResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		result, err = returnItemUnits(ctx, tx, itemID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *ledgerCommandsImpl) AdjustTotal(ctx context.Context, itemID uuid.UUID, newTotal int32) error {
	if newTotal < 0 {
		return ErrInvalidTotal
	}

	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		counters, err := tx.Items().AdjustTotal(ctx, itemID, newTotal)
		if err != nil {
			switch {
			case infra.IsKind(err, infra.KindNotFound):
				return ErrItemNotFound
			case infra.IsKind(err, infra.KindUnavailable):
				return ErrItemUnavailable
			case infra.IsKind(err, infra.KindConflict):
				return ErrInvalidAdjustment
			default:
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		_, err = projectAndStore(ctx, tx, itemID, counters)
		return err
	})
}

func (l *ledgerCommandsImpl) MarkUnderRepair(ctx context.Context, itemID uuid.UUID) error {
	return l.setAdministrativeStatus(ctx, itemID, item.StatusUnderRepair)
}

func (l *ledgerCommandsImpl) Retire(ctx context.Context, itemID uuid.UUID) error {
	return l.setAdministrativeStatus(ctx, itemID, item.StatusRetired)
}

// Reinstate returns an item from an administrative state to whatever its
// counters imply.
func (l *ledgerCommandsImpl) Reinstate(ctx context.Context, itemID uuid.UUID) error {
	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		it, err := findItemForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !it.Status().IsAdministrative() {
			return nil
		}

		counters := shared.ItemCounters{
			Available: it.QuantityAvailable(),
			Total:     it.QuantityTotal(),
			// Force re-projection past the administrative guard.
			Status: "",
		}
		_, err = projectAndStore(ctx, tx, itemID, counters)
		return err
	})
}

func (l *ledgerCommandsImpl) setAdministrativeStatus(ctx context.Context, itemID uuid.UUID, status item.Status) error {
	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := findItem(ctx, tx, itemID); err != nil {
			return err
		}
		if err := tx.Items().SetStatus(ctx, itemID, status); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func findItem(ctx context.Context, tx shared.Tx, itemID uuid.UUID) (*item.Item, error) {
	return mapItemErr(tx.Items().FindByID(ctx, itemID))
}

// findItemForUpdate takes the row lock. Every read whose counters feed a
// later status write must come through here, not findItem, or a concurrent
// reservation can land between the read and the write.
func findItemForUpdate(ctx context.Context, tx shared.Tx, itemID uuid.UUID) (*item.Item, error) {
	return mapItemErr(tx.Items().FindByIDForUpdate(ctx, itemID))
}

func mapItemErr(it *item.Item, err error) (*item.Item, error) {
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return it, nil
}

// reserveItemUnits performs the atomic compare-and-decrement and maps the
// store's answer onto the ledger's error taxonomy.
func reserveItemUnits(ctx context.Context, tx shared.Tx, itemID uuid.UUID, qty int32) (shared.ItemCounters, error) {
	counters, err := tx.Items().ReserveUnits(ctx, itemID, qty)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return shared.ItemCounters{}, ErrItemNotFound
		case infra.IsKind(err, infra.KindUnavailable):
			return shared.ItemCounters{}, ErrItemUnavailable
		case infra.IsKind(err, infra.KindConflict):
			return shared.ItemCounters{}, ErrInsufficientAvailability
		default:
			return shared.ItemCounters{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	return counters, nil
}

func returnItemUnits(ctx context.Context, tx shared.Tx, itemID uuid.UUID, qty int32) (*ReturnResult, error) {
	counters, surplus, err := tx.Items().ReturnUnits(ctx, itemID, qty)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	status, err := projectAndStore(ctx, tx, itemID, counters)
	if err != nil {
		return nil, err
	}

	return &ReturnResult{
		ItemID:    itemID,
		Accepted:  qty - surplus,
		Surplus:   surplus,
		NewStatus: status,
	}, nil
}

// projectAndStore recomputes the derived status from the counters just
// written and persists it within the same transaction. Administrative
// states are left alone.
func projectAndStore(ctx context.Context, tx shared.Tx, itemID uuid.UUID, counters shared.ItemCounters) (item.Status, error) {
	if counters.Status.IsAdministrative() {
		return counters.Status, nil
	}

	pending, err := tx.Checkouts().PendingCheckInCount(ctx, itemID)
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}

	target := item.Project(counters.Available, counters.Total, pending > 0)
	if target == counters.Status {
		return target, nil
	}
	if err := tx.Items().SetStatus(ctx, itemID, target); err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return target, nil
}
