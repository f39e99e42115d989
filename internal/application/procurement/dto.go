package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the request to create a purchase order
type CreateOrderRequest struct {
	SupplierID uuid.UUID          `json:"supplier_id" binding:"required"`
	BranchID   uuid.UUID          `json:"branch_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes      string             `json:"notes" binding:"max=2000"`
}

// OrderItemRequest is one product line of a purchase order request
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// RejectOrderRequest carries the mandatory rejection reason
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelOrderRequest carries the mandatory cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ReceiveOrderRequest posts goods receipts against an order
type ReceiveOrderRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiveLineRequest is one received line
type ReceiveLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// OrderListFilter contains filtering options for listing purchase orders
type OrderListFilter struct {
	Page       int        `json:"page" form:"page"`
	PageSize   int        `json:"page_size" form:"page_size"`
	OrderBy    string     `json:"order_by" form:"order_by"`
	OrderDir   string     `json:"order_dir" form:"order_dir"`
	Status     string     `json:"status" form:"status"`
	SupplierID *uuid.UUID `json:"supplier_id" form:"supplier_id"`
	BranchID   *uuid.UUID `json:"branch_id" form:"branch_id"`
}

// OrderItemResponse is the API representation of a purchase order line
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	ReceivedQuantity  int64           `json:"received_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// OrderResponse is the API representation of a purchase order
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	SupplierID      uuid.UUID           `json:"supplier_id"`
	SupplierName    string              `json:"supplier_name"`
	BranchID        uuid.UUID           `json:"branch_id"`
	Items           []OrderItemResponse `json:"items"`
	TotalCost       decimal.Decimal     `json:"total_cost"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID          `json:"created_by,omitempty"`
	ApprovedBy      *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID          `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time          `json:"rejected_at,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	SentAt          *time.Time          `json:"sent_at,omitempty"`
	ReceivedAt      *time.Time          `json:"received_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain purchase order to its response representation
func ToOrderResponse(order *procurement.PurchaseOrder) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = OrderItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			ProductSKU:        item.ProductSKU,
			OrderedQuantity:   item.OrderedQuantity,
			ReceivedQuantity:  item.ReceivedQuantity,
			RemainingQuantity: item.RemainingQuantity(),
			UnitCost:          item.UnitCost,
			LineTotal:         item.LineTotal,
		}
	}

	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		BranchID:        order.BranchID,
		Items:           items,
		TotalCost:       order.TotalCost,
		Status:          order.Status.String(),
		Notes:           order.Notes,
		CreatedBy:       order.CreatedBy,
		ApprovedBy:      order.ApprovedBy,
		ApprovedAt:      order.ApprovedAt,
		RejectedBy:      order.RejectedBy,
		RejectedAt:      order.RejectedAt,
		RejectionReason: order.RejectionReason,
		SentAt:          order.SentAt,
		ReceivedAt:      order.ReceivedAt,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
		Version:         order.Version,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain purchase orders
func ToOrderResponses(orders []procurement.PurchaseOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
