package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a sale
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// PaymentMethod represents how the customer paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodMobileMoney:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// CheckoutLine describes one product line at checkout, with the product
// details already snapshotted from the catalog
type CheckoutLine struct {
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Barcode     string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// SaleItem is an immutable snapshot of a product line at the moment of
// sale. Later catalog edits never change historical sales.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	ProductSKU   string          `gorm:"type:varchar(50);not null"`
	Barcode      string          `gorm:"type:varchar(50)"`
	QuantitySold int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

func newSaleItem(saleID uuid.UUID, line CheckoutLine) (*SaleItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if line.ProductName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if line.Quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Quantity for product %s must be positive", line.ProductID))
	}
	if line.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unit price for product %s cannot be negative", line.ProductID))
	}

	return &SaleItem{
		ID:           uuid.New(),
		SaleID:       saleID,
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		ProductSKU:   line.ProductSKU,
		Barcode:      line.Barcode,
		QuantitySold: line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineTotal:    line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
		CreatedAt:    time.Now(),
	}, nil
}

// Sale represents a completed point-of-sale transaction aggregate root.
// A sale is created in COMPLETED status together with its stock
// deductions; cancellation is the only mutation afterwards.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_number"`
	BranchID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_branch_time,priority:1"`
	SoldBy             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items              []SaleItem      `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountPaid         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangeGiven        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod      PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status             Status          `gorm:"type:varchar(20);not null;default:'COMPLETED';index"`
	TillNumber         string          `gorm:"type:varchar(20)"`
	Notes              string          `gorm:"type:varchar(500)"`
	SoldAt             time.Time       `gorm:"type:timestamptz;not null;index:idx_sale_branch_time,priority:2"`
	CancelledBy        *uuid.UUID      `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a completed sale with its snapshotted lines and
// computed totals. taxRate is the fractional rate applied to the
// subtotal (0.075 meaning 7.5%).
func NewSale(saleNumber string, branchID, soldBy uuid.UUID, lines []CheckoutLine, taxRate, discount, amountPaid decimal.Decimal, paymentMethod PaymentMethod, tillNumber, notes string) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale number cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}
	if soldBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Selling user is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale must contain at least one line")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment method %q", paymentMethod))
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax rate cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount cannot be negative")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		BranchID:          branchID,
		SoldBy:            soldBy,
		Items:             make([]SaleItem, 0, len(lines)),
		PaymentMethod:     paymentMethod,
		Status:            StatusCompleted,
		TillNumber:        tillNumber,
		Notes:             notes,
		SoldAt:            time.Now(),
	}

	subtotal := decimal.Zero
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s appears more than once in the sale", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}

		item, err := newSaleItem(sale.ID, line)
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, *item)
		subtotal = subtotal.Add(item.LineTotal)
	}

	if discount.GreaterThan(subtotal) {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Discount %s exceeds subtotal %s", discount.StringFixed(2), subtotal.StringFixed(2)))
	}

	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Sub(discount)

	if amountPaid.LessThan(total) {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Amount paid %s is less than total %s", amountPaid.StringFixed(2), total.StringFixed(2)))
	}

	sale.Subtotal = subtotal
	sale.Tax = tax
	sale.Discount = discount
	sale.TotalAmount = total
	sale.AmountPaid = amountPaid
	sale.ChangeGiven = amountPaid.Sub(total)

	sale.AddDomainEvent(NewSaleCompletedEvent(sale))

	return sale, nil
}

// Cancel flips a completed sale to CANCELLED exactly once. The caller
// restores the matching stock in the same transaction; the optimistic
// version on the aggregate makes a concurrent double-cancel lose.
func (s *Sale) Cancel(cancelledBy uuid.UUID, reason string) error {
	if s.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancelling user is required")
	}
	if len(reason) < 5 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancellation reason must be at least 5 characters")
	}

	now := time.Now()
	s.Status = StatusCancelled
	s.CancelledBy = &cancelledBy
	s.CancelledAt = &now
	s.CancellationReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// IsCancelled returns true if the sale has been cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// TotalQuantity returns the total quantity sold across lines
func (s *Sale) TotalQuantity() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.QuantitySold
	}
	return total
}
