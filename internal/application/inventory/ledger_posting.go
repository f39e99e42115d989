package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PostIncrease applies a stock increase to the branch ledger and writes the
// matching movement row in the same transaction. The record is lazily created
// at zero quantity; newly created records inherit defaultReorderPoint (the
// product's low-stock threshold) as their reorder point.
//
// The returned record still carries its domain events; the caller publishes
// them after the transaction commits.
func PostIncrease(
	ctx context.Context,
	repos LedgerWriter,
	branchID, productID uuid.UUID,
	quantity int64,
	movementType inventory.MovementType,
	reference string,
	operatorID uuid.UUID,
	defaultReorderPoint int64,
) (*inventory.InventoryRecord, error) {
	record, err := repos.RecordRepo().GetOrCreate(ctx, branchID, productID)
	if err != nil {
		return nil, err
	}

	if record.ReorderPoint == 0 && defaultReorderPoint > 0 {
		if err := record.SetReorderPoint(defaultReorderPoint); err != nil {
			return nil, err
		}
	}

	quantityBefore := record.Quantity

	if err := record.Increase(quantity, movementType, reference); err != nil {
		return nil, err
	}

	if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(record, movementType, quantity, quantityBefore, reference, operatorID)
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}

	return record, nil
}

// PostDeduction applies a stock deduction to the branch ledger and writes the
// matching movement row in the same transaction. Deducting more than the
// current quantity fails with INSUFFICIENT_STOCK and nothing is written.
func PostDeduction(
	ctx context.Context,
	repos LedgerWriter,
	branchID, productID uuid.UUID,
	quantity int64,
	movementType inventory.MovementType,
	reference string,
	operatorID uuid.UUID,
) (*inventory.InventoryRecord, error) {
	record, err := repos.RecordRepo().FindByBranchAndProduct(ctx, branchID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "No stock on hand for this product at this branch")
		}
		return nil, err
	}

	quantityBefore := record.Quantity

	if err := record.Deduct(quantity, movementType, reference); err != nil {
		return nil, err
	}

	if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(record, movementType, quantity, quantityBefore, reference, operatorID)
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}

	return record, nil
}

// ExecuteWithRetry runs fn, retrying while it fails with CONFLICT (another
// writer won the optimistic version check). After attempts tries the CONFLICT
// is surfaced to the caller.
func ExecuteWithRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConflict) {
			return err
		}
	}
	return err
}
