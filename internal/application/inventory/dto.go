package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
)

// RecordResponse is the API representation of an inventory record
type RecordResponse struct {
	ID           uuid.UUID `json:"id"`
	BranchID     uuid.UUID `json:"branch_id"`
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	ReorderPoint int64     `json:"reorder_point"`
	BinLocation  string    `json:"bin_location,omitempty"`
	LowStock     bool      `json:"low_stock"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToRecordResponse converts a domain record to its response representation
func ToRecordResponse(record *inventory.InventoryRecord) RecordResponse {
	return RecordResponse{
		ID:           record.ID,
		BranchID:     record.BranchID,
		ProductID:    record.ProductID,
		Quantity:     record.Quantity,
		ReorderPoint: record.ReorderPoint,
		BinLocation:  record.BinLocation,
		LowStock:     record.IsAtOrBelowReorderPoint(),
		Version:      record.Version,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// ToRecordResponses converts a slice of domain records
func ToRecordResponses(records []inventory.InventoryRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}

// MovementResponse is the API representation of a stock movement
type MovementResponse struct {
	ID             uuid.UUID  `json:"id"`
	RecordID       uuid.UUID  `json:"record_id"`
	BranchID       uuid.UUID  `json:"branch_id"`
	ProductID      uuid.UUID  `json:"product_id"`
	Type           string     `json:"type"`
	Quantity       int64      `json:"quantity"`
	QuantityBefore int64      `json:"quantity_before"`
	QuantityAfter  int64      `json:"quantity_after"`
	Reference      string     `json:"reference"`
	Note           string     `json:"note,omitempty"`
	OperatorID     *uuid.UUID `json:"operator_id,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// ToMovementResponse converts a domain movement to its response representation
func ToMovementResponse(movement *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:             movement.ID,
		RecordID:       movement.RecordID,
		BranchID:       movement.BranchID,
		ProductID:      movement.ProductID,
		Type:           movement.Type.String(),
		Quantity:       movement.Quantity,
		QuantityBefore: movement.QuantityBefore,
		QuantityAfter:  movement.QuantityAfter,
		Reference:      movement.Reference,
		Note:           movement.Note,
		OperatorID:     movement.OperatorID,
		OccurredAt:     movement.OccurredAt,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// AdjustmentResponse is the API representation of an adjustment audit entry
type AdjustmentResponse struct {
	ID             uuid.UUID `json:"id"`
	RecordID       uuid.UUID `json:"record_id"`
	BranchID       uuid.UUID `json:"branch_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Direction      string    `json:"direction"`
	Quantity       int64     `json:"quantity"`
	Reason         string    `json:"reason"`
	Note           string    `json:"note,omitempty"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	AdjustedBy     uuid.UUID `json:"adjusted_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToAdjustmentResponse converts a domain adjustment to its response representation
func ToAdjustmentResponse(adjustment *inventory.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:             adjustment.ID,
		RecordID:       adjustment.RecordID,
		BranchID:       adjustment.BranchID,
		ProductID:      adjustment.ProductID,
		Direction:      string(adjustment.Direction),
		Quantity:       adjustment.Quantity,
		Reason:         adjustment.Reason.String(),
		Note:           adjustment.Note,
		QuantityBefore: adjustment.QuantityBefore,
		QuantityAfter:  adjustment.QuantityAfter,
		AdjustedBy:     adjustment.AdjustedBy,
		CreatedAt:      adjustment.CreatedAt,
	}
}

// ToAdjustmentResponses converts a slice of domain adjustments
func ToAdjustmentResponses(adjustments []inventory.Adjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses
}

// RecordListFilter contains filtering options for listing inventory records
type RecordListFilter struct {
	Page      int        `json:"page" form:"page"`
	PageSize  int        `json:"page_size" form:"page_size"`
	OrderBy   string     `json:"order_by" form:"order_by"`
	OrderDir  string     `json:"order_dir" form:"order_dir"`
	BranchID  *uuid.UUID `json:"branch_id" form:"branch_id"`
	ProductID *uuid.UUID `json:"product_id" form:"product_id"`
	LowStock  *bool      `json:"low_stock" form:"low_stock"`
}

// MovementListFilter contains filtering options for listing stock movements
type MovementListFilter struct {
	Page      int        `json:"page" form:"page"`
	PageSize  int        `json:"page_size" form:"page_size"`
	OrderBy   string     `json:"order_by" form:"order_by"`
	OrderDir  string     `json:"order_dir" form:"order_dir"`
	BranchID  *uuid.UUID `json:"branch_id" form:"branch_id"`
	ProductID *uuid.UUID `json:"product_id" form:"product_id"`
	Type      string     `json:"type" form:"type"`
	Reference string     `json:"reference" form:"reference"`
	StartDate *time.Time `json:"start_date" form:"start_date"`
	EndDate   *time.Time `json:"end_date" form:"end_date"`
}

// AdjustmentListFilter contains filtering options for the adjustment history
type AdjustmentListFilter struct {
	Page      int        `json:"page" form:"page"`
	PageSize  int        `json:"page_size" form:"page_size"`
	OrderBy   string     `json:"order_by" form:"order_by"`
	OrderDir  string     `json:"order_dir" form:"order_dir"`
	BranchID  *uuid.UUID `json:"branch_id" form:"branch_id"`
	ProductID *uuid.UUID `json:"product_id" form:"product_id"`
	Reason    string     `json:"reason" form:"reason"`
	StartDate *time.Time `json:"start_date" form:"start_date"`
	EndDate   *time.Time `json:"end_date" form:"end_date"`
}

// AdjustRequest is the request to post a manual stock correction
type AdjustRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	BranchID  uuid.UUID `json:"branch_id" binding:"required"`
	Direction string    `json:"direction" binding:"required,oneof=INCREASE DECREASE"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Reason    string    `json:"reason" binding:"required"`
	Note      string    `json:"note"`
}

// SetReorderPointRequest updates the reorder threshold of a record
type SetReorderPointRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	BranchID     uuid.UUID `json:"branch_id" binding:"required"`
	ReorderPoint int64     `json:"reorder_point" binding:"gte=0"`
}

// SetBinLocationRequest updates the physical bin location of a record
type SetBinLocationRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	BranchID    uuid.UUID `json:"branch_id" binding:"required"`
	BinLocation string    `json:"bin_location" binding:"max=50"`
}
