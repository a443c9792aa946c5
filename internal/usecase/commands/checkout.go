package commands

import (
	"context"

	"gearpool/internal/domain/checkout"
	"gearpool/internal/infra"
	"gearpool/internal/pkg/errs"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
)

// ReturnReport aggregates per-line return results for a whole request.
type ReturnReport struct {
	RequestID uuid.UUID
	Lines     []ReturnResult
}

func (r *ReturnReport) HasAnomalies() bool {
	for _, line := range r.Lines {
		if line.Surplus > 0 {
			return true
		}
	}
	return false
}

type CheckoutCommands interface {
	Submit(ctx context.Context, requesterID uuid.UUID, lines []checkout.Line) (uuid.UUID, error)
	// Approve grants every line of the request or none of them: the per-line
	// decrements run inside one transaction.
	Approve(ctx context.Context, requestID uuid.UUID) error
	Reject(ctx context.Context, requestID uuid.UUID) error
	MarkCheckedOut(ctx context.Context, requestID uuid.UUID) error
	Return(ctx context.Context, requestID uuid.UUID) (*ReturnReport, error)
	ConfirmCheckIn(ctx context.Context, requestID uuid.UUID) error
}

type checkoutCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCheckoutCommands(uow shared.UnitOfWork) CheckoutCommands {
	return &checkoutCommandsImpl{uow: uow}
}

func (c *checkoutCommandsImpl) Submit(ctx context.Context, requesterID uuid.UUID, lines []checkout.Line) (uuid.UUID, error) {
	req, err := checkout.NewRequest(requesterID, lines)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidQuantity)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Checkouts().Create(ctx, req); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.ID(), nil
}

func (c *checkoutCommandsImpl) Approve(ctx context.Context, requestID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := req.Approve(); err != nil {
			return ErrRequestNotPending
		}

		// Any failing line aborts the transaction, so partially granted
		// requests cannot exist.
		for _, line := range req.Lines() {
			counters, err := reserveItemUnits(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			if _, err := projectAndStore(ctx, tx, line.ItemID, counters); err != nil {
				return err
			}
		}

		return c.persistStatus(ctx, tx, req)
	})
}

func (c *checkoutCommandsImpl) Reject(ctx context.Context, requestID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := req.Reject(); err != nil {
			return ErrRequestNotPending
		}
		return c.persistStatus(ctx, tx, req)
	})
}

func (c *checkoutCommandsImpl) MarkCheckedOut(ctx context.Context, requestID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := req.MarkCheckedOut(); err != nil {
			return ErrRequestNotApproved
		}
		return c.persistStatus(ctx, tx, req)
	})
}

func (c *checkoutCommandsImpl) Return(ctx context.Context, requestID uuid.UUID) (*ReturnReport, error) {
	report := &ReturnReport{RequestID: requestID}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := req.MarkReturned(); err != nil {
			return ErrRequestNotCheckedOut
		}
		if err := c.persistStatus(ctx, tx, req); err != nil {
			return err
		}

		report.Lines = report.Lines[:0]
		for _, line := range req.Lines() {
			result, err := returnItemUnits(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			report.Lines = append(report.Lines, *result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *checkoutCommandsImpl) ConfirmCheckIn(ctx context.Context, requestID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := req.ConfirmCheckIn(); err != nil {
			return ErrNothingToCheckIn
		}
		if err := c.persistStatus(ctx, tx, req); err != nil {
			return err
		}

		// Dropping the pending flag can flip items from PendingCheckIn back
		// to Available; refresh each touched item under its row lock.
		for _, line := range req.Lines() {
			it, err := findItemForUpdate(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}
			counters := shared.ItemCounters{
				Available: it.QuantityAvailable(),
				Total:     it.QuantityTotal(),
				Status:    it.Status(),
			}
			if _, err := projectAndStore(ctx, tx, line.ItemID, counters); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *checkoutCommandsImpl) persistStatus(ctx context.Context, tx shared.Tx, req *checkout.Request) error {
	if err := tx.Checkouts().UpdateStatus(ctx, req.ID(), req.Status(), req.PendingCheckIn()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func findRequest(ctx context.Context, tx shared.Tx, requestID uuid.UUID) (*checkout.Request, error) {
	req, err := tx.Checkouts().FindByID(ctx, requestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return req, nil
}
