package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderApproved  = "PurchaseOrderApproved"
	EventTypePurchaseOrderRejected  = "PurchaseOrderRejected"
	EventTypePurchaseOrderSent      = "PurchaseOrderSent"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
)

// OrderLineInfo represents line information carried on events
type OrderLineInfo struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       string          `json:"product_sku"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

func orderLineInfos(order *PurchaseOrder) []OrderLineInfo {
	lines := make([]OrderLineInfo, len(order.Items))
	for i, item := range order.Items {
		lines[i] = OrderLineInfo{
			ItemID:           item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductSKU:       item.ProductSKU,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			LineTotal:        item.LineTotal,
		}
	}
	return lines
}

// ReceivedLineInfo represents one line received in a receiving operation
type ReceivedLineInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	BranchIDVal  uuid.UUID       `json:"branch_id"`
	Lines        []OrderLineInfo `json:"lines"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		BranchIDVal:     order.BranchID,
		Lines:           orderLineInfos(order),
		TotalCost:       order.TotalCost,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderApprovedEvent is raised when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	approvedBy := uuid.Nil
	if order.ApprovedBy != nil {
		approvedBy = *order.ApprovedBy
	}

	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		ApprovedBy:      approvedBy,
		TotalCost:       order.TotalCost,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// PurchaseOrderRejectedEvent is raised when a purchase order is rejected
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	RejectedBy  uuid.UUID `json:"rejected_by"`
	Reason      string    `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a new PurchaseOrderRejectedEvent
func NewPurchaseOrderRejectedEvent(order *PurchaseOrder) *PurchaseOrderRejectedEvent {
	rejectedBy := uuid.Nil
	if order.RejectedBy != nil {
		rejectedBy = *order.RejectedBy
	}

	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderRejected, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		RejectedBy:      rejectedBy,
		Reason:          order.RejectionReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderRejectedEvent) EventType() string {
	return EventTypePurchaseOrderRejected
}

// PurchaseOrderSentEvent is raised when an order is dispatched to the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	BranchIDVal  uuid.UUID       `json:"branch_id"`
	Lines        []OrderLineInfo `json:"lines"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// NewPurchaseOrderSentEvent creates a new PurchaseOrderSentEvent
func NewPurchaseOrderSentEvent(order *PurchaseOrder) *PurchaseOrderSentEvent {
	return &PurchaseOrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSent, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		BranchIDVal:     order.BranchID,
		Lines:           orderLineInfos(order),
		TotalCost:       order.TotalCost,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderSentEvent) EventType() string {
	return EventTypePurchaseOrderSent
}

// PurchaseOrderReceivedEvent is raised when goods are received for an order.
// The inventory context consumes the matching stock increases in the same
// transaction; this event serves audit and integration consumers.
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID          `json:"order_id"`
	OrderNumber     string             `json:"order_number"`
	SupplierID      uuid.UUID          `json:"supplier_id"`
	BranchIDVal     uuid.UUID          `json:"branch_id"`
	ReceivedLines   []ReceivedLineInfo `json:"received_lines"`
	IsFullyReceived bool               `json:"is_fully_received"`
	ReceivedAt      *time.Time         `json:"received_at,omitempty"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, receivedLines []ReceivedLineInfo) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		BranchIDVal:     order.BranchID,
		ReceivedLines:   receivedLines,
		IsFullyReceived: order.IsReceived(),
		ReceivedAt:      order.ReceivedAt,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Reason      string    `json:"reason"`
	WasSent     bool      `json:"was_sent"` // If true, the supplier may need to be notified
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, wasSent bool) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.BranchID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		Reason:          order.CancelReason,
		WasSent:         wasSent,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}
