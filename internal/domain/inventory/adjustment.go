package inventory

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// AdjustmentReason is the enumerated reason for a manual stock correction.
// The values are part of the API contract and stored as-is.
type AdjustmentReason string

const (
	AdjustmentReasonDamaged     AdjustmentReason = "damaged"
	AdjustmentReasonExpired     AdjustmentReason = "expired"
	AdjustmentReasonTheft       AdjustmentReason = "theft"
	AdjustmentReasonInternalUse AdjustmentReason = "internal_use"
	AdjustmentReasonOther       AdjustmentReason = "other"
)

// String returns the string representation of AdjustmentReason
func (r AdjustmentReason) String() string {
	return string(r)
}

// IsValid returns true if the reason is one of the enumerated values
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case AdjustmentReasonDamaged,
		AdjustmentReasonExpired,
		AdjustmentReasonTheft,
		AdjustmentReasonInternalUse,
		AdjustmentReasonOther:
		return true
	}
	return false
}

// AdjustmentDirection indicates whether an adjustment adds or removes stock
type AdjustmentDirection string

const (
	AdjustmentDirectionIncrease AdjustmentDirection = "INCREASE"
	AdjustmentDirectionDecrease AdjustmentDirection = "DECREASE"
)

// IsValid returns true if the direction is valid
func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentDirectionIncrease || d == AdjustmentDirectionDecrease
}

// MovementType returns the stock movement type for this direction
func (d AdjustmentDirection) MovementType() MovementType {
	if d == AdjustmentDirectionIncrease {
		return MovementTypeAdjustmentIncrease
	}
	return MovementTypeAdjustmentDecrease
}

// Adjustment is an append-only audit entry for a manual stock correction.
// Adjustments are never updated or deleted.
type Adjustment struct {
	shared.BaseEntity
	RecordID       uuid.UUID           `gorm:"type:uuid;not null;index:idx_adjustment_record"`
	BranchID       uuid.UUID           `gorm:"type:uuid;not null;index:idx_adjustment_branch_time,priority:1"`
	ProductID      uuid.UUID           `gorm:"type:uuid;not null;index:idx_adjustment_product"`
	Direction      AdjustmentDirection `gorm:"type:varchar(10);not null"`
	Quantity       int64               `gorm:"not null"` // Always positive
	Reason         AdjustmentReason    `gorm:"type:varchar(20);not null;index:idx_adjustment_reason"`
	Note           string              `gorm:"type:varchar(500)"`
	QuantityBefore int64               `gorm:"not null"`
	QuantityAfter  int64               `gorm:"not null"`
	AdjustedBy     uuid.UUID           `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "stock_adjustments"
}

// NewAdjustment creates a new adjustment audit entry
func NewAdjustment(
	record *InventoryRecord,
	direction AdjustmentDirection,
	quantity int64,
	reason AdjustmentReason,
	note string,
	quantityBefore int64,
	adjustedBy uuid.UUID,
) (*Adjustment, error) {
	if record == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Inventory record is required")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment direction")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment quantity must be positive")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment reason")
	}
	if reason == AdjustmentReasonOther && note == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "A note is required when the reason is 'other'")
	}
	if adjustedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjusting user is required")
	}

	quantityAfter := quantityBefore + quantity
	if direction == AdjustmentDirectionDecrease {
		quantityAfter = quantityBefore - quantity
	}

	return &Adjustment{
		BaseEntity:     shared.NewBaseEntity(),
		RecordID:       record.ID,
		BranchID:       record.BranchID,
		ProductID:      record.ProductID,
		Direction:      direction,
		Quantity:       quantity,
		Reason:         reason,
		Note:           note,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		AdjustedBy:     adjustedBy,
	}, nil
}
