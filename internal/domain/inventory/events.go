package inventory

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryRecord = "InventoryRecord"

// Event type constants
const (
	EventTypeStockIncreased         = "StockIncreased"
	EventTypeStockDeducted          = "StockDeducted"
	EventTypeStockAdjusted          = "StockAdjusted"
	EventTypeStockBelowReorderPoint = "StockBelowReorderPoint"
)

// StockIncreasedEvent is raised when stock is added to a ledger record
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	RecordID     uuid.UUID    `json:"record_id"`
	ProductID    uuid.UUID    `json:"product_id"`
	MovementType MovementType `json:"movement_type"`
	Quantity     int64        `json:"quantity"`
	NewQuantity  int64        `json:"new_quantity"`
	Reference    string       `json:"reference"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(record *InventoryRecord, quantity int64, movementType MovementType, reference string) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeInventoryRecord, record.ID, record.BranchID),
		RecordID:        record.ID,
		ProductID:       record.ProductID,
		MovementType:    movementType,
		Quantity:        quantity,
		NewQuantity:     record.Quantity,
		Reference:       reference,
	}
}

// EventType returns the event type name
func (e *StockIncreasedEvent) EventType() string {
	return EventTypeStockIncreased
}

// StockDeductedEvent is raised when stock is removed from a ledger record
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	RecordID     uuid.UUID    `json:"record_id"`
	ProductID    uuid.UUID    `json:"product_id"`
	MovementType MovementType `json:"movement_type"`
	Quantity     int64        `json:"quantity"`
	NewQuantity  int64        `json:"new_quantity"`
	Reference    string       `json:"reference"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(record *InventoryRecord, quantity int64, movementType MovementType, reference string) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeInventoryRecord, record.ID, record.BranchID),
		RecordID:        record.ID,
		ProductID:       record.ProductID,
		MovementType:    movementType,
		Quantity:        quantity,
		NewQuantity:     record.Quantity,
		Reference:       reference,
	}
}

// EventType returns the event type name
func (e *StockDeductedEvent) EventType() string {
	return EventTypeStockDeducted
}

// StockAdjustedEvent is raised when a manual adjustment is applied
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	RecordID       uuid.UUID           `json:"record_id"`
	ProductID      uuid.UUID           `json:"product_id"`
	Direction      AdjustmentDirection `json:"direction"`
	Quantity       int64               `json:"quantity"`
	Reason         AdjustmentReason    `json:"reason"`
	QuantityBefore int64               `json:"quantity_before"`
	QuantityAfter  int64               `json:"quantity_after"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(record *InventoryRecord, adjustment *Adjustment) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryRecord, record.ID, record.BranchID),
		RecordID:        record.ID,
		ProductID:       record.ProductID,
		Direction:       adjustment.Direction,
		Quantity:        adjustment.Quantity,
		Reason:          adjustment.Reason,
		QuantityBefore:  adjustment.QuantityBefore,
		QuantityAfter:   adjustment.QuantityAfter,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockBelowReorderPointEvent is raised when a deduction drops stock to or
// below the record's reorder point
type StockBelowReorderPointEvent struct {
	shared.BaseDomainEvent
	RecordID     uuid.UUID `json:"record_id"`
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	ReorderPoint int64     `json:"reorder_point"`
}

// NewStockBelowReorderPointEvent creates a new StockBelowReorderPointEvent
func NewStockBelowReorderPointEvent(record *InventoryRecord) *StockBelowReorderPointEvent {
	return &StockBelowReorderPointEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderPoint, AggregateTypeInventoryRecord, record.ID, record.BranchID),
		RecordID:        record.ID,
		ProductID:       record.ProductID,
		Quantity:        record.Quantity,
		ReorderPoint:    record.ReorderPoint,
	}
}

// EventType returns the event type name
func (e *StockBelowReorderPointEvent) EventType() string {
	return EventTypeStockBelowReorderPoint
}
