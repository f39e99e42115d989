package transfer

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockTransfer = "StockTransfer"

// Event type constants
const (
	EventTypeTransferRequested = "TransferRequested"
	EventTypeTransferApproved  = "TransferApproved"
	EventTypeTransferRejected  = "TransferRejected"
	EventTypeTransferShipped   = "TransferShipped"
	EventTypeTransferCompleted = "TransferCompleted"
	EventTypeTransferCancelled = "TransferCancelled"
)

// TransferLineInfo represents line information carried on events
type TransferLineInfo struct {
	ItemID            uuid.UUID `json:"item_id"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	ProductSKU        string    `json:"product_sku"`
	QuantityRequested int64     `json:"quantity_requested"`
	QuantityApproved  int64     `json:"quantity_approved"`
	QuantityShipped   int64     `json:"quantity_shipped"`
	QuantityReceived  int64     `json:"quantity_received"`
}

func transferLineInfos(t *StockTransfer) []TransferLineInfo {
	lines := make([]TransferLineInfo, len(t.Items))
	for i, item := range t.Items {
		lines[i] = TransferLineInfo{
			ItemID:            item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			ProductSKU:        item.ProductSKU,
			QuantityRequested: item.QuantityRequested,
			QuantityApproved:  item.QuantityApproved,
			QuantityShipped:   item.QuantityShipped,
			QuantityReceived:  item.QuantityReceived,
		}
	}
	return lines
}

// ShippedLineInfo represents one line shipped from the source branch
type ShippedLineInfo struct {
	ItemID      uuid.UUID `json:"item_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	ProductSKU  string    `json:"product_sku"`
	Quantity    int64     `json:"quantity"`
}

// ReceivedLineInfo represents one line received at the destination branch
type ReceivedLineInfo struct {
	ItemID      uuid.UUID `json:"item_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	ProductSKU  string    `json:"product_sku"`
	Quantity    int64     `json:"quantity"`
}

// TransferRequestedEvent is raised when a new transfer is requested
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	FromBranchID   uuid.UUID          `json:"from_branch_id"`
	ToBranchID     uuid.UUID          `json:"to_branch_id"`
	RequestedBy    uuid.UUID          `json:"requested_by"`
	Priority       Priority           `json:"priority"`
	Reason         string             `json:"reason"`
	Lines          []TransferLineInfo `json:"lines"`
}

// NewTransferRequestedEvent creates a new TransferRequestedEvent
func NewTransferRequestedEvent(t *StockTransfer) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeStockTransfer, t.ID, t.FromBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		RequestedBy:     t.RequestedBy,
		Priority:        t.Priority,
		Reason:          t.Reason,
		Lines:           transferLineInfos(t),
	}
}

// EventType returns the event type name
func (e *TransferRequestedEvent) EventType() string {
	return EventTypeTransferRequested
}

// TransferApprovedEvent is raised when a transfer is approved
type TransferApprovedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	FromBranchID   uuid.UUID          `json:"from_branch_id"`
	ToBranchID     uuid.UUID          `json:"to_branch_id"`
	ApprovedBy     uuid.UUID          `json:"approved_by"`
	Lines          []TransferLineInfo `json:"lines"`
}

// NewTransferApprovedEvent creates a new TransferApprovedEvent
func NewTransferApprovedEvent(t *StockTransfer) *TransferApprovedEvent {
	approvedBy := uuid.Nil
	if t.ApprovedBy != nil {
		approvedBy = *t.ApprovedBy
	}

	return &TransferApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferApproved, AggregateTypeStockTransfer, t.ID, t.FromBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		ApprovedBy:      approvedBy,
		Lines:           transferLineInfos(t),
	}
}

// EventType returns the event type name
func (e *TransferApprovedEvent) EventType() string {
	return EventTypeTransferApproved
}

// TransferRejectedEvent is raised when a transfer is rejected
type TransferRejectedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	FromBranchID   uuid.UUID `json:"from_branch_id"`
	ToBranchID     uuid.UUID `json:"to_branch_id"`
	RejectedBy     uuid.UUID `json:"rejected_by"`
	Reason         string    `json:"reason"`
}

// NewTransferRejectedEvent creates a new TransferRejectedEvent
func NewTransferRejectedEvent(t *StockTransfer) *TransferRejectedEvent {
	rejectedBy := uuid.Nil
	if t.RejectedBy != nil {
		rejectedBy = *t.RejectedBy
	}

	return &TransferRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRejected, AggregateTypeStockTransfer, t.ID, t.FromBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		RejectedBy:      rejectedBy,
		Reason:          t.RejectionReason,
	}
}

// EventType returns the event type name
func (e *TransferRejectedEvent) EventType() string {
	return EventTypeTransferRejected
}

// TransferShippedEvent is raised when a transfer leaves the source branch.
// The matching source-branch stock deductions commit in the same
// transaction; this event serves audit and integration consumers.
type TransferShippedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID         `json:"transfer_id"`
	TransferNumber string            `json:"transfer_number"`
	FromBranchID   uuid.UUID         `json:"from_branch_id"`
	ToBranchID     uuid.UUID         `json:"to_branch_id"`
	ShippedBy      uuid.UUID         `json:"shipped_by"`
	ShippedLines   []ShippedLineInfo `json:"shipped_lines"`
}

// NewTransferShippedEvent creates a new TransferShippedEvent
func NewTransferShippedEvent(t *StockTransfer, shippedLines []ShippedLineInfo) *TransferShippedEvent {
	shippedBy := uuid.Nil
	if t.ShippedBy != nil {
		shippedBy = *t.ShippedBy
	}

	return &TransferShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferShipped, AggregateTypeStockTransfer, t.ID, t.FromBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		ShippedBy:       shippedBy,
		ShippedLines:    shippedLines,
	}
}

// EventType returns the event type name
func (e *TransferShippedEvent) EventType() string {
	return EventTypeTransferShipped
}

// TransferCompletedEvent is raised when a transfer arrives at the
// destination branch
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	FromBranchID   uuid.UUID          `json:"from_branch_id"`
	ToBranchID     uuid.UUID          `json:"to_branch_id"`
	ReceivedBy     uuid.UUID          `json:"received_by"`
	ReceivedLines  []ReceivedLineInfo `json:"received_lines"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *StockTransfer, receivedLines []ReceivedLineInfo) *TransferCompletedEvent {
	receivedBy := uuid.Nil
	if t.ReceivedBy != nil {
		receivedBy = *t.ReceivedBy
	}

	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeStockTransfer, t.ID, t.ToBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		ReceivedBy:      receivedBy,
		ReceivedLines:   receivedLines,
	}
}

// EventType returns the event type name
func (e *TransferCompletedEvent) EventType() string {
	return EventTypeTransferCompleted
}

// TransferCancelledEvent is raised when a pending transfer is withdrawn
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	FromBranchID   uuid.UUID `json:"from_branch_id"`
	ToBranchID     uuid.UUID `json:"to_branch_id"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *StockTransfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeStockTransfer, t.ID, t.FromBranchID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
	}
}

// EventType returns the event type name
func (e *TransferCancelledEvent) EventType() string {
	return EventTypeTransferCancelled
}
