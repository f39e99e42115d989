package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll finds purchase orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByBranch finds purchase orders destined for a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]PurchaseOrder, error)

	// FindPendingApproval finds orders waiting for an approval decision
	FindPendingApproval(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// CreateWithEvents inserts a brand-new order and persists its domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, order *PurchaseOrder, events []shared.DomainEvent) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain
	// events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, order *PurchaseOrder, events []shared.DomainEvent) error

	// Count counts purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts purchase orders in a given status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// CountBySupplier counts purchase orders for a supplier
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// GenerateOrderNumber generates a unique order number for a branch
	GenerateOrderNumber(ctx context.Context, branchCode string) (string, error)
}
