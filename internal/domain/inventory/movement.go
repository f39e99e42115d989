package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeSale represents stock sold at the till
	MovementTypeSale MovementType = "SALE"
	// MovementTypeSaleCancellation represents stock restored by a cancelled sale
	MovementTypeSaleCancellation MovementType = "SALE_CANCELLATION"
	// MovementTypePurchaseReceipt represents stock received against a purchase order
	MovementTypePurchaseReceipt MovementType = "PURCHASE_RECEIPT"
	// MovementTypeTransferIn represents stock received from another branch
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut represents stock shipped to another branch
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
	// MovementTypeAdjustmentIncrease represents a positive manual correction
	MovementTypeAdjustmentIncrease MovementType = "ADJUSTMENT_INCREASE"
	// MovementTypeAdjustmentDecrease represents a negative manual correction
	MovementTypeAdjustmentDecrease MovementType = "ADJUSTMENT_DECREASE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale,
		MovementTypeSaleCancellation,
		MovementTypePurchaseReceipt,
		MovementTypeTransferIn,
		MovementTypeTransferOut,
		MovementTypeAdjustmentIncrease,
		MovementTypeAdjustmentDecrease:
		return true
	}
	return false
}

// IsIncrease returns true if this movement type increases stock
func (t MovementType) IsIncrease() bool {
	switch t {
	case MovementTypeSaleCancellation,
		MovementTypePurchaseReceipt,
		MovementTypeTransferIn,
		MovementTypeAdjustmentIncrease:
		return true
	}
	return false
}

// IsDecrease returns true if this movement type decreases stock
func (t MovementType) IsDecrease() bool {
	switch t {
	case MovementTypeSale,
		MovementTypeTransferOut,
		MovementTypeAdjustmentDecrease:
		return true
	}
	return false
}

// Movement is an immutable record of a single stock change. Once created,
// movements cannot be modified; corrections are made with new movements.
type Movement struct {
	shared.BaseEntity
	RecordID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_record"`
	BranchID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_branch_time,priority:1"`
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_product"`
	Type           MovementType `gorm:"type:varchar(30);not null;index:idx_movement_type"`
	Quantity       int64        `gorm:"not null"` // Always positive, direction determined by type
	QuantityBefore int64        `gorm:"not null"`
	QuantityAfter  int64        `gorm:"not null"`
	Reference      string       `gorm:"type:varchar(100);index"` // Source document number
	Note           string       `gorm:"type:varchar(255)"`
	OperatorID     *uuid.UUID   `gorm:"type:uuid"`
	OccurredAt     time.Time    `gorm:"type:timestamptz;not null;index:idx_movement_branch_time,priority:2"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a new stock movement record
func NewMovement(
	record *InventoryRecord,
	movementType MovementType,
	quantity int64,
	quantityBefore int64,
	reference string,
	operatorID uuid.UUID,
) (*Movement, error) {
	if record == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Inventory record is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement type")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if reference == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Movement reference cannot be empty")
	}

	quantityAfter := quantityBefore + quantity
	if movementType.IsDecrease() {
		quantityAfter = quantityBefore - quantity
	}

	m := &Movement{
		BaseEntity:     shared.NewBaseEntity(),
		RecordID:       record.ID,
		BranchID:       record.BranchID,
		ProductID:      record.ProductID,
		Type:           movementType,
		Quantity:       quantity,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		Reference:      reference,
		OccurredAt:     time.Now(),
	}
	if operatorID != uuid.Nil {
		m.OperatorID = &operatorID
	}

	return m, nil
}

// WithNote sets an optional note on the movement
func (m *Movement) WithNote(note string) *Movement {
	m.Note = note
	return m
}
