package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// InventoryRecord is the authoritative stock counter for a product at a
// branch. It is the aggregate root for all ledger operations.
// The composite identifier is BranchID + ProductID.
type InventoryRecord struct {
	shared.BaseAggregateRoot
	BranchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_record_branch_product,priority:1"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_record_branch_product,priority:2"`
	Quantity     int64     `gorm:"not null;default:0;check:quantity >= 0"`
	ReorderPoint int64     `gorm:"not null;default:0"`
	BinLocation  string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// NewInventoryRecord creates a new zero-quantity record for a branch-product combination
func NewInventoryRecord(branchID, productID uuid.UUID) (*InventoryRecord, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}

	return &InventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		ProductID:         productID,
		Quantity:          0,
	}, nil
}

// Increase adds stock to the record. The movement type must be an
// increasing type; reference identifies the source document.
func (r *InventoryRecord) Increase(quantity int64, movementType MovementType, reference string) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if !movementType.IsIncrease() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Movement type %s does not increase stock", movementType))
	}

	r.Quantity += quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockIncreasedEvent(r, quantity, movementType, reference))

	return nil
}

// Deduct removes stock from the record. The ledger never goes negative:
// deducting more than the current quantity fails with INSUFFICIENT_STOCK.
func (r *InventoryRecord) Deduct(quantity int64, movementType MovementType, reference string) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if !movementType.IsDecrease() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Movement type %s does not decrease stock", movementType))
	}
	if quantity > r.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: requested %d, available %d", quantity, r.Quantity))
	}

	wasAboveReorderPoint := !r.IsAtOrBelowReorderPoint()

	r.Quantity -= quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockDeductedEvent(r, quantity, movementType, reference))

	if wasAboveReorderPoint && r.IsAtOrBelowReorderPoint() {
		r.AddDomainEvent(NewStockBelowReorderPointEvent(r))
	}

	return nil
}

// CanFulfill returns true if the current quantity covers the requested quantity
func (r *InventoryRecord) CanFulfill(quantity int64) bool {
	return quantity > 0 && r.Quantity >= quantity
}

// IsAtOrBelowReorderPoint returns true if stock has reached the reorder threshold
func (r *InventoryRecord) IsAtOrBelowReorderPoint() bool {
	return r.ReorderPoint > 0 && r.Quantity <= r.ReorderPoint
}

// SetReorderPoint sets the reorder threshold for low-stock alerts
func (r *InventoryRecord) SetReorderPoint(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reorder point cannot be negative")
	}

	r.ReorderPoint = quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetBinLocation sets the physical bin location within the branch
func (r *InventoryRecord) SetBinLocation(location string) error {
	if len(location) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Bin location cannot exceed 50 characters")
	}

	r.BinLocation = location
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
