package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/transfer"
)

// RequestTransferRequest is the request to open a branch-to-branch transfer
type RequestTransferRequest struct {
	FromBranchID uuid.UUID             `json:"from_branch_id" binding:"required"`
	ToBranchID   uuid.UUID             `json:"to_branch_id" binding:"required"`
	Items        []TransferItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason       string                `json:"reason" binding:"required,max=500"`
	Priority     string                `json:"priority" binding:"omitempty,oneof=NORMAL URGENT"`
	Notes        string                `json:"notes" binding:"max=2000"`
}

// TransferItemRequest is one product line of a transfer request
type TransferItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// QuantityLineRequest overrides the quantity of one line during
// approve, ship or receive
type QuantityLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"gte=0"`
}

// ApproveTransferRequest optionally trims line quantities on approval
type ApproveTransferRequest struct {
	Lines []QuantityLineRequest `json:"lines" binding:"omitempty,dive"`
}

// RejectTransferRequest carries the mandatory rejection reason
type RejectTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ShipTransferRequest marks the transfer as shipped, optionally trimming
// line quantities
type ShipTransferRequest struct {
	Lines         []QuantityLineRequest `json:"lines" binding:"omitempty,dive"`
	ShippingNotes string                `json:"shipping_notes" binding:"max=500"`
}

// ReceiveTransferRequest marks the transfer as received, optionally trimming
// line quantities
type ReceiveTransferRequest struct {
	Lines          []QuantityLineRequest `json:"lines" binding:"omitempty,dive"`
	ReceivingNotes string                `json:"receiving_notes" binding:"max=500"`
}

// TransferListFilter contains filtering options for listing transfers
type TransferListFilter struct {
	Page      int        `json:"page" form:"page"`
	PageSize  int        `json:"page_size" form:"page_size"`
	OrderBy   string     `json:"order_by" form:"order_by"`
	OrderDir  string     `json:"order_dir" form:"order_dir"`
	Status    string     `json:"status" form:"status"`
	Priority  string     `json:"priority" form:"priority"`
	BranchID  *uuid.UUID `json:"branch_id" form:"branch_id"`
	Direction string     `json:"direction" form:"direction"` // INBOUND or OUTBOUND, relative to branch_id
}

// TransferItemResponse is the API representation of a transfer line
type TransferItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	ProductSKU        string    `json:"product_sku"`
	QuantityRequested int64     `json:"quantity_requested"`
	QuantityApproved  int64     `json:"quantity_approved"`
	QuantityShipped   int64     `json:"quantity_shipped"`
	QuantityReceived  int64     `json:"quantity_received"`
}

// TransferResponse is the API representation of a stock transfer
type TransferResponse struct {
	ID              uuid.UUID              `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromBranchID    uuid.UUID              `json:"from_branch_id"`
	ToBranchID      uuid.UUID              `json:"to_branch_id"`
	Items           []TransferItemResponse `json:"items"`
	Status          string                 `json:"status"`
	Priority        string                 `json:"priority"`
	Reason          string                 `json:"reason"`
	Notes           string                 `json:"notes,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	ShippingNotes   string                 `json:"shipping_notes,omitempty"`
	ReceivingNotes  string                 `json:"receiving_notes,omitempty"`
	RequestedBy     uuid.UUID              `json:"requested_by"`
	ApprovedBy      *uuid.UUID             `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID             `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	ShippedBy       *uuid.UUID             `json:"shipped_by,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	ReceivedBy      *uuid.UUID             `json:"received_by,omitempty"`
	ReceivedAt      *time.Time             `json:"received_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	Version         int                    `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a StockTransfer aggregate to a TransferResponse
func ToTransferResponse(t *transfer.StockTransfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, TransferItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			ProductSKU:        item.ProductSKU,
			QuantityRequested: item.QuantityRequested,
			QuantityApproved:  item.QuantityApproved,
			QuantityShipped:   item.QuantityShipped,
			QuantityReceived:  item.QuantityReceived,
		})
	}

	return TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		Items:           items,
		Status:          string(t.Status),
		Priority:        string(t.Priority),
		Reason:          t.Reason,
		Notes:           t.Notes,
		RejectionReason: t.RejectionReason,
		ShippingNotes:   t.ShippingNotes,
		ReceivingNotes:  t.ReceivingNotes,
		RequestedBy:     t.RequestedBy,
		ApprovedBy:      t.ApprovedBy,
		ApprovedAt:      t.ApprovedAt,
		RejectedBy:      t.RejectedBy,
		RejectedAt:      t.RejectedAt,
		ShippedBy:       t.ShippedBy,
		ShippedAt:       t.ShippedAt,
		ReceivedBy:      t.ReceivedBy,
		ReceivedAt:      t.ReceivedAt,
		CancelledAt:     t.CancelledAt,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToTransferResponses converts a slice of transfers
func ToTransferResponses(transfers []transfer.StockTransfer) []TransferResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}
	return responses
}
