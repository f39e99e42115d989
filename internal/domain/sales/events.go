package sales

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleCancelled = "SaleCancelled"
)

// SaleLineInfo represents line information carried on events
type SaleLineInfo struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	QuantitySold int64           `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

func saleLineInfos(sale *Sale) []SaleLineInfo {
	lines := make([]SaleLineInfo, len(sale.Items))
	for i, item := range sale.Items {
		lines[i] = SaleLineInfo{
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductSKU:   item.ProductSKU,
			QuantitySold: item.QuantitySold,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal,
		}
	}
	return lines
}

// SaleCompletedEvent is raised when a sale is completed at the till
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNumber    string          `json:"sale_number"`
	BranchIDVal   uuid.UUID       `json:"branch_id"`
	SoldBy        uuid.UUID       `json:"sold_by"`
	Lines         []SaleLineInfo  `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID, sale.BranchID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		BranchIDVal:     sale.BranchID,
		SoldBy:          sale.SoldBy,
		Lines:           saleLineInfos(sale),
		Subtotal:        sale.Subtotal,
		Tax:             sale.Tax,
		Discount:        sale.Discount,
		TotalAmount:     sale.TotalAmount,
		PaymentMethod:   sale.PaymentMethod,
	}
}

// EventType returns the event type name
func (e *SaleCompletedEvent) EventType() string {
	return EventTypeSaleCompleted
}

// SaleCancelledEvent is raised when a completed sale is cancelled and
// its stock restored
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID      `json:"sale_id"`
	SaleNumber  string         `json:"sale_number"`
	BranchIDVal uuid.UUID      `json:"branch_id"`
	CancelledBy uuid.UUID      `json:"cancelled_by"`
	Reason      string         `json:"reason"`
	Lines       []SaleLineInfo `json:"lines"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	cancelledBy := uuid.Nil
	if sale.CancelledBy != nil {
		cancelledBy = *sale.CancelledBy
	}

	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID, sale.BranchID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		BranchIDVal:     sale.BranchID,
		CancelledBy:     cancelledBy,
		Reason:          sale.CancellationReason,
		Lines:           saleLineInfos(sale),
	}
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return EventTypeSaleCancelled
}
