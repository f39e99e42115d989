package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a purchase order
type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusSent            Status = "SENT"
	StatusReceived        Status = "RECEIVED"
	StatusCancelled       Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusRejected,
		StatusSent, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPendingApproval:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusSent || target == StatusCancelled
	case StatusSent:
		// Cancellation from SENT is additionally guarded by the aggregate:
		// it is refused once any goods have been received.
		return target == StatusReceived || target == StatusCancelled
	case StatusRejected, StatusReceived, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status.
// Partial receipts do not change the status, so SENT covers both the
// untouched and the partially received order. APPROVED is accepted as
// well: approval implies dispatch, and rows written before the dispatch
// bookkeeping existed may still carry it.
func (s Status) CanReceive() bool {
	return s == StatusSent || s == StatusApproved
}

// IsTerminal returns true for states with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusReceived || s == StatusCancelled
}

// OrderLine describes one product line when creating a purchase order
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int64
	UnitCost    decimal.Decimal
}

// ReceiveLine represents a single line being received against an order
type ReceiveLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	ProductSKU       string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity  int64           `gorm:"not null"`
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

func newPurchaseOrderItem(orderID uuid.UUID, line OrderLine) (*PurchaseOrderItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if line.ProductName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if line.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Ordered quantity for product %s must be positive", line.ProductID))
	}
	if !line.UnitCost.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unit cost for product %s must be positive", line.ProductID))
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        line.ProductID,
		ProductName:      line.ProductName,
		ProductSKU:       line.ProductSKU,
		OrderedQuantity:  line.Quantity,
		ReceivedQuantity: 0,
		UnitCost:         line.UnitCost,
		LineTotal:        line.UnitCost.Mul(decimal.NewFromInt(line.Quantity)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() int64 {
	remaining := i.OrderedQuantity - i.ReceivedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.OrderedQuantity
}

// AddReceivedQuantity accumulates a receipt onto the line.
// Receipts beyond the ordered quantity are rejected outright.
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Receive quantity must be positive")
	}

	newReceived := i.ReceivedQuantity + quantity
	if newReceived > i.OrderedQuantity {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Cannot receive %d of product %s, only %d remaining", quantity, i.ProductID, i.RemainingQuantity()))
	}

	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()

	return nil
}

// PurchaseOrder represents a purchase order aggregate root.
// Orders carry their full set of lines from creation; only workflow
// transitions (approve, reject, send, receive, cancel) mutate them.
type PurchaseOrder struct {
	shared.AuditedAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_number"`
	SupplierID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName    string              `gorm:"type:varchar(200);not null"`
	BranchID        uuid.UUID           `gorm:"type:uuid;not null;index"` // Destination branch for receiving
	Items           []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalCost       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status          Status              `gorm:"type:varchar(20);not null;default:'PENDING_APPROVAL';index"`
	Notes           string              `gorm:"type:text"`
	ApprovedBy      *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason string     `gorm:"type:varchar(500)"`
	SentAt          *time.Time `gorm:"index"`
	ReceivedAt      *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order with its full set of lines
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, branchID, createdBy uuid.UUID, lines []OrderLine, notes string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Creating user is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order must contain at least one line")
	}

	order := &PurchaseOrder{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		OrderNumber:          orderNumber,
		SupplierID:           supplierID,
		SupplierName:         supplierName,
		BranchID:             branchID,
		Items:                make([]PurchaseOrderItem, 0, len(lines)),
		TotalCost:            decimal.Zero,
		Status:               StatusPendingApproval,
		Notes:                notes,
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s appears more than once in the order", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}

		item, err := newPurchaseOrderItem(order.ID, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// Approve transitions the order out of PENDING_APPROVAL. An approved
// order is dispatched to the supplier in the same step, so it lands on
// SENT with both the approval and dispatch timestamps set.
func (o *PurchaseOrder) Approve(approvedBy uuid.UUID) error {
	if !o.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Approving user is required")
	}

	now := time.Now()
	o.Status = StatusApproved
	o.ApprovedBy = &approvedBy
	o.ApprovedAt = &now
	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	o.Status = StatusSent
	o.SentAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderSentEvent(o))

	return nil
}

// Reject transitions the order from PENDING_APPROVAL to REJECTED.
// A non-empty reason is required.
func (o *PurchaseOrder) Reject(rejectedBy uuid.UUID, reason string) error {
	if !o.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject order in %s status", o.Status))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejecting user is required")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	o.Status = StatusRejected
	o.RejectedBy = &rejectedBy
	o.RejectedAt = &now
	o.RejectionReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderRejectedEvent(o))

	return nil
}

// Receive accumulates goods receipts onto the order lines.
// Receipts are additive: re-posting the same line adds again, and any
// line that would exceed its ordered quantity aborts the whole call.
// Returns the received line info so the caller can post matching stock
// increases in the same transaction.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]ReceivedLineInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receive lines cannot be empty")
	}

	received := make([]ReceivedLineInfo, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Receive quantity for product %s must be positive", line.ProductID))
		}

		var found bool
		for idx := range o.Items {
			if o.Items[idx].ProductID == line.ProductID {
				if err := o.Items[idx].AddReceivedQuantity(line.Quantity); err != nil {
					return nil, err
				}

				received = append(received, ReceivedLineInfo{
					ItemID:      o.Items[idx].ID,
					ProductID:   line.ProductID,
					ProductName: o.Items[idx].ProductName,
					ProductSKU:  o.Items[idx].ProductSKU,
					Quantity:    line.Quantity,
					UnitCost:    o.Items[idx].UnitCost,
				})

				found = true
				break
			}
		}

		if !found {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is not part of this order", line.ProductID))
		}
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = StatusReceived
		o.ReceivedAt = &now
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))

	return received, nil
}

// Cancel closes the order before any goods have arrived.
// SENT orders can still be cancelled as long as nothing was received.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancel reason is required")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot cancel order after goods have been received")
	}

	wasSent := o.Status == StatusSent
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, wasSent))

	return nil
}

// IsReceived returns true once every line has been fully received
func (o *PurchaseOrder) IsReceived() bool {
	return o.Status == StatusReceived
}

// recalculateTotal recalculates the order total from its lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal)
	}
	o.TotalCost = total
}

// isFullyReceived checks if all lines have been fully received
func (o *PurchaseOrder) isFullyReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// hasReceivedAnyGoods checks if any goods have been received
func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity > 0 {
			return true
		}
	}
	return false
}

// TotalOrderedQuantity returns the total ordered quantity across lines
func (o *PurchaseOrder) TotalOrderedQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.OrderedQuantity
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across lines
func (o *PurchaseOrder) TotalReceivedQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.ReceivedQuantity
	}
	return total
}

// TotalRemainingQuantity returns the quantity still expected
func (o *PurchaseOrder) TotalRemainingQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.RemainingQuantity()
	}
	return total
}
