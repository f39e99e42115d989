package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindByCode finds a branch by code
	FindByCode(ctx context.Context, code string) (*Branch, error)

	// FindAll finds branches with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// FindActive finds active branches
	FindActive(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, branch *Branch) error

	// Count counts branches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a branch code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsByName checks if a branch name is already taken
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByCode finds a supplier by code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindAll finds suppliers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// FindActive finds active suppliers
	FindActive(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, supplier *Supplier) error

	// Count counts suppliers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a supplier code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
