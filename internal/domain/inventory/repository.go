package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// RecordRepository defines the interface for inventory record persistence
type RecordRepository interface {
	// FindByID finds an inventory record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)

	// FindByBranchAndProduct finds the record for a branch-product combination
	FindByBranchAndProduct(ctx context.Context, branchID, productID uuid.UUID) (*InventoryRecord, error)

	// FindByBranch finds all inventory records in a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// FindByProduct finds all inventory records for a product across branches
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// FindAll finds all inventory records
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRecord, error)

	// FindAtOrBelowReorderPoint finds records whose quantity has reached the reorder threshold
	FindAtOrBelowReorderPoint(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// Save creates or updates an inventory record
	Save(ctx context.Context, record *InventoryRecord) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *InventoryRecord) error

	// GetOrCreate gets the existing record or creates a zero-quantity one
	GetOrCreate(ctx context.Context, branchID, productID uuid.UUID) (*InventoryRecord, error)

	// Count counts inventory records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByBranch counts inventory records in a branch
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)

	// SumQuantityByProduct sums total quantity for a product across all branches
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// MovementRepository defines the interface for stock movement persistence.
// Movements are append-only: there are no update or delete operations.
type MovementRepository interface {
	// Create persists a new movement
	Create(ctx context.Context, movement *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindByRecord finds movements for an inventory record
	FindByRecord(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByBranch finds movements in a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByReference finds movements by source document number
	FindByReference(ctx context.Context, reference string) ([]Movement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AdjustmentRepository defines the interface for adjustment audit persistence.
// The log is append-only: there are no update or delete operations.
type AdjustmentRepository interface {
	// Create persists a new adjustment entry
	Create(ctx context.Context, adjustment *Adjustment) error

	// FindByID finds an adjustment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)

	// FindByBranch finds adjustments in a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Adjustment, error)

	// FindAll finds adjustments matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Adjustment, error)

	// Count counts adjustments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByBranch counts adjustments in a branch
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
}
