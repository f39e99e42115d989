package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the request to ring up a sale at the till
type CheckoutRequest struct {
	BranchID      uuid.UUID             `json:"branch_id" binding:"required"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal       `json:"discount"`
	AmountPaid    decimal.Decimal       `json:"amount_paid" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=CASH CARD BANK_TRANSFER MOBILE_MONEY"`
	TillNumber    string                `json:"till_number" binding:"max=20"`
	Notes         string                `json:"notes" binding:"max=500"`
}

// CheckoutItemRequest is one product line at checkout
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CancelSaleRequest carries the mandatory cancellation reason
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// SaleListFilter contains filtering options for listing sales
type SaleListFilter struct {
	Page          int        `json:"page" form:"page"`
	PageSize      int        `json:"page_size" form:"page_size"`
	OrderBy       string     `json:"order_by" form:"order_by"`
	OrderDir      string     `json:"order_dir" form:"order_dir"`
	Status        string     `json:"status" form:"status"`
	BranchID      *uuid.UUID `json:"branch_id" form:"branch_id"`
	SoldBy        *uuid.UUID `json:"sold_by" form:"sold_by"`
	PaymentMethod string     `json:"payment_method" form:"payment_method"`
	From          *time.Time `json:"from" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To            *time.Time `json:"to" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SaleItemResponse is the API representation of a sale line
type SaleItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	Barcode      string          `json:"barcode,omitempty"`
	QuantitySold int64           `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SaleResponse is the API representation of a sale
type SaleResponse struct {
	ID                 uuid.UUID          `json:"id"`
	SaleNumber         string             `json:"sale_number"`
	BranchID           uuid.UUID          `json:"branch_id"`
	SoldBy             uuid.UUID          `json:"sold_by"`
	Items              []SaleItemResponse `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	Tax                decimal.Decimal    `json:"tax"`
	Discount           decimal.Decimal    `json:"discount"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	AmountPaid         decimal.Decimal    `json:"amount_paid"`
	ChangeGiven        decimal.Decimal    `json:"change_given"`
	PaymentMethod      string             `json:"payment_method"`
	Status             string             `json:"status"`
	TillNumber         string             `json:"till_number,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	SoldAt             time.Time          `json:"sold_at"`
	CancelledBy        *uuid.UUID         `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	Version            int                `json:"version"`
	CreatedAt          time.Time          `json:"created_at"`
}

// ToSaleResponse converts a Sale aggregate to a SaleResponse
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductSKU:   item.ProductSKU,
			Barcode:      item.Barcode,
			QuantitySold: item.QuantitySold,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal,
		})
	}

	return SaleResponse{
		ID:                 sale.ID,
		SaleNumber:         sale.SaleNumber,
		BranchID:           sale.BranchID,
		SoldBy:             sale.SoldBy,
		Items:              items,
		Subtotal:           sale.Subtotal,
		Tax:                sale.Tax,
		Discount:           sale.Discount,
		TotalAmount:        sale.TotalAmount,
		AmountPaid:         sale.AmountPaid,
		ChangeGiven:        sale.ChangeGiven,
		PaymentMethod:      string(sale.PaymentMethod),
		Status:             string(sale.Status),
		TillNumber:         sale.TillNumber,
		Notes:              sale.Notes,
		SoldAt:             sale.SoldAt,
		CancelledBy:        sale.CancelledBy,
		CancelledAt:        sale.CancelledAt,
		CancellationReason: sale.CancellationReason,
		Version:            sale.Version,
		CreatedAt:          sale.CreatedAt,
	}
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(saleList []sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, 0, len(saleList))
	for i := range saleList {
		responses = append(responses, ToSaleResponse(&saleList[i]))
	}
	return responses
}
