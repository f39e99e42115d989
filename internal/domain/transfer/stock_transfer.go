package transfer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a stock transfer
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInTransit,
		StatusCompleted, StatusRejected, StatusCancelled:
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
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusInTransit
	case StatusInTransit:
		return target == StatusCompleted
	case StatusCompleted, StatusRejected, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// Priority indicates how urgently a transfer should be handled
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// IsValid returns true if the priority is valid
func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// RequestLine describes one product line when requesting a transfer
type RequestLine struct {
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int64
}

// QuantityLine carries a per-product quantity for approve/ship/receive calls
type QuantityLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// TransferItem represents a line item in a stock transfer. The four
// quantities form a monotone chain:
// requested >= approved >= shipped >= received.
type TransferItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	TransferID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null"`
	ProductName       string    `gorm:"type:varchar(200);not null"`
	ProductSKU        string    `gorm:"type:varchar(50);not null"`
	QuantityRequested int64     `gorm:"not null"`
	QuantityApproved  int64     `gorm:"not null;default:0"`
	QuantityShipped   int64     `gorm:"not null;default:0"`
	QuantityReceived  int64     `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "stock_transfer_items"
}

func newTransferItem(transferID uuid.UUID, line RequestLine) (*TransferItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if line.ProductName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if line.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Requested quantity for product %s must be positive", line.ProductID))
	}

	now := time.Now()
	return &TransferItem{
		ID:                uuid.New(),
		TransferID:        transferID,
		ProductID:         line.ProductID,
		ProductName:       line.ProductName,
		ProductSKU:        line.ProductSKU,
		QuantityRequested: line.Quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (i *TransferItem) approve(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Approved quantity cannot be negative")
	}
	if quantity > i.QuantityRequested {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Cannot approve %d of product %s, only %d requested", quantity, i.ProductID, i.QuantityRequested))
	}

	i.QuantityApproved = quantity
	i.UpdatedAt = time.Now()

	return nil
}

func (i *TransferItem) ship(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Shipped quantity cannot be negative")
	}
	if quantity > i.QuantityApproved {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Cannot ship %d of product %s, only %d approved", quantity, i.ProductID, i.QuantityApproved))
	}

	i.QuantityShipped = quantity
	i.UpdatedAt = time.Now()

	return nil
}

func (i *TransferItem) receive(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Received quantity cannot be negative")
	}
	if quantity > i.QuantityShipped {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Cannot receive %d of product %s, only %d shipped", quantity, i.ProductID, i.QuantityShipped))
	}

	i.QuantityReceived = quantity
	i.UpdatedAt = time.Now()

	return nil
}

// StockTransfer represents a branch-to-branch stock movement aggregate root.
// Stock leaves the source branch when the transfer ships and arrives at the
// destination branch when it is received; in between it is in transit and
// counted at neither branch.
type StockTransfer struct {
	shared.BaseAggregateRoot
	TransferNumber  string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_transfer_number"`
	FromBranchID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToBranchID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Items           []TransferItem `gorm:"foreignKey:TransferID;references:ID"`
	Status          Status         `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Priority        Priority       `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	Reason          string         `gorm:"type:varchar(500);not null"`
	Notes           string         `gorm:"type:text"`
	RejectionReason string         `gorm:"type:varchar(500)"`
	ShippingNotes   string         `gorm:"type:varchar(500)"`
	ReceivingNotes  string         `gorm:"type:varchar(500)"`
	RequestedBy     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	ShippedBy       *uuid.UUID `gorm:"type:uuid"`
	ShippedAt       *time.Time
	ReceivedBy      *uuid.UUID `gorm:"type:uuid"`
	ReceivedAt      *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a transfer request with its full set of lines
func NewStockTransfer(transferNumber string, fromBranchID, toBranchID, requestedBy uuid.UUID, lines []RequestLine, reason string, priority Priority, notes string) (*StockTransfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer number cannot be empty")
	}
	if fromBranchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source branch ID cannot be empty")
	}
	if toBranchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Destination branch ID cannot be empty")
	}
	if fromBranchID == toBranchID {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source and destination branches must differ")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requesting user is required")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer reason is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer must contain at least one line")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid priority %q", priority))
	}

	t := &StockTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferNumber:    transferNumber,
		FromBranchID:      fromBranchID,
		ToBranchID:        toBranchID,
		Items:             make([]TransferItem, 0, len(lines)),
		Status:            StatusPending,
		Priority:          priority,
		Reason:            reason,
		Notes:             notes,
		RequestedBy:       requestedBy,
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s appears more than once in the transfer", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}

		item, err := newTransferItem(t.ID, line)
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, *item)
	}

	t.AddDomainEvent(NewTransferRequestedEvent(t))

	return t, nil
}

// Approve transitions the transfer from PENDING to APPROVED, fixing the
// approved quantity per line. Lines without an explicit quantity default
// to the requested quantity.
func (t *StockTransfer) Approve(approvedBy uuid.UUID, lines []QuantityLine) error {
	if !t.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot approve transfer in %s status", t.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Approving user is required")
	}

	quantities, err := t.resolveQuantities(lines, func(i *TransferItem) int64 { return i.QuantityRequested })
	if err != nil {
		return err
	}
	for idx := range t.Items {
		if err := t.Items[idx].approve(quantities[t.Items[idx].ProductID]); err != nil {
			return err
		}
	}

	now := time.Now()
	t.Status = StatusApproved
	t.ApprovedBy = &approvedBy
	t.ApprovedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferApprovedEvent(t))

	return nil
}

// Reject transitions the transfer from PENDING to REJECTED.
// A non-empty reason is required.
func (t *StockTransfer) Reject(rejectedBy uuid.UUID, reason string) error {
	if !t.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject transfer in %s status", t.Status))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejecting user is required")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	t.Status = StatusRejected
	t.RejectedBy = &rejectedBy
	t.RejectedAt = &now
	t.RejectionReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferRejectedEvent(t))

	return nil
}

// Ship transitions the transfer from APPROVED to IN_TRANSIT, fixing the
// shipped quantity per line (defaults to the approved quantity). Returns
// the shipped line info so the caller can post matching source-branch
// deductions in the same transaction.
func (t *StockTransfer) Ship(shippedBy uuid.UUID, lines []QuantityLine, shippingNotes string) ([]ShippedLineInfo, error) {
	if !t.Status.CanTransitionTo(StatusInTransit) {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot ship transfer in %s status", t.Status))
	}
	if shippedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Shipping user is required")
	}

	quantities, err := t.resolveQuantities(lines, func(i *TransferItem) int64 { return i.QuantityApproved })
	if err != nil {
		return nil, err
	}

	shipped := make([]ShippedLineInfo, 0, len(t.Items))
	for idx := range t.Items {
		item := &t.Items[idx]
		if err := item.ship(quantities[item.ProductID]); err != nil {
			return nil, err
		}
		if item.QuantityShipped > 0 {
			shipped = append(shipped, ShippedLineInfo{
				ItemID:      item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.QuantityShipped,
			})
		}
	}
	if len(shipped) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot ship a transfer with no quantity on any line")
	}

	now := time.Now()
	t.Status = StatusInTransit
	t.ShippedBy = &shippedBy
	t.ShippedAt = &now
	t.ShippingNotes = shippingNotes
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferShippedEvent(t, shipped))

	return shipped, nil
}

// Receive transitions the transfer from IN_TRANSIT to COMPLETED, fixing
// the received quantity per line (defaults to the shipped quantity).
// Returns the received line info so the caller can post matching
// destination-branch increases in the same transaction.
func (t *StockTransfer) Receive(receivedBy uuid.UUID, lines []QuantityLine, receivingNotes string) ([]ReceivedLineInfo, error) {
	if !t.Status.CanTransitionTo(StatusCompleted) {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot receive transfer in %s status", t.Status))
	}
	if receivedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receiving user is required")
	}

	quantities, err := t.resolveQuantities(lines, func(i *TransferItem) int64 { return i.QuantityShipped })
	if err != nil {
		return nil, err
	}

	received := make([]ReceivedLineInfo, 0, len(t.Items))
	for idx := range t.Items {
		item := &t.Items[idx]
		if err := item.receive(quantities[item.ProductID]); err != nil {
			return nil, err
		}
		if item.QuantityReceived > 0 {
			received = append(received, ReceivedLineInfo{
				ItemID:      item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.QuantityReceived,
			})
		}
	}

	now := time.Now()
	t.Status = StatusCompleted
	t.ReceivedBy = &receivedBy
	t.ReceivedAt = &now
	t.ReceivingNotes = receivingNotes
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t, received))

	return received, nil
}

// Cancel withdraws a transfer that has not been decided yet
func (t *StockTransfer) Cancel() error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel transfer in %s status", t.Status))
	}

	now := time.Now()
	t.Status = StatusCancelled
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return nil
}

// InvolvesBranch returns true if the branch is either side of the transfer
func (t *StockTransfer) InvolvesBranch(branchID uuid.UUID) bool {
	return t.FromBranchID == branchID || t.ToBranchID == branchID
}

// resolveQuantities maps each item's product to the quantity to use for a
// transition: the explicit line quantity if given, the item's default
// otherwise. Lines naming products outside the transfer are rejected.
func (t *StockTransfer) resolveQuantities(lines []QuantityLine, defaultOf func(*TransferItem) int64) (map[uuid.UUID]int64, error) {
	quantities := make(map[uuid.UUID]int64, len(t.Items))
	for idx := range t.Items {
		quantities[t.Items[idx].ProductID] = defaultOf(&t.Items[idx])
	}

	for _, line := range lines {
		if _, ok := quantities[line.ProductID]; !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is not part of this transfer", line.ProductID))
		}
		quantities[line.ProductID] = line.Quantity
	}

	return quantities, nil
}
