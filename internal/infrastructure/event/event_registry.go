package event

import (
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/procurement"
	"github.com/retailcore/backend/internal/domain/sales"
	"github.com/retailcore/backend/internal/domain/transfer"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Inventory ledger events
	serializer.Register(inventory.EventTypeStockIncreased, &inventory.StockIncreasedEvent{})
	serializer.Register(inventory.EventTypeStockDeducted, &inventory.StockDeductedEvent{})
	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})
	serializer.Register(inventory.EventTypeStockBelowReorderPoint, &inventory.StockBelowReorderPointEvent{})

	// Purchase order events
	serializer.Register(procurement.EventTypePurchaseOrderCreated, &procurement.PurchaseOrderCreatedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderApproved, &procurement.PurchaseOrderApprovedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderRejected, &procurement.PurchaseOrderRejectedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderSent, &procurement.PurchaseOrderSentEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderReceived, &procurement.PurchaseOrderReceivedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderCancelled, &procurement.PurchaseOrderCancelledEvent{})

	// Stock transfer events
	serializer.Register(transfer.EventTypeTransferRequested, &transfer.TransferRequestedEvent{})
	serializer.Register(transfer.EventTypeTransferApproved, &transfer.TransferApprovedEvent{})
	serializer.Register(transfer.EventTypeTransferRejected, &transfer.TransferRejectedEvent{})
	serializer.Register(transfer.EventTypeTransferShipped, &transfer.TransferShippedEvent{})
	serializer.Register(transfer.EventTypeTransferCompleted, &transfer.TransferCompletedEvent{})
	serializer.Register(transfer.EventTypeTransferCancelled, &transfer.TransferCancelledEvent{})

	// Sale events
	serializer.Register(sales.EventTypeSaleCompleted, &sales.SaleCompletedEvent{})
	serializer.Register(sales.EventTypeSaleCancelled, &sales.SaleCancelledEvent{})

	// Catalog events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeCategoryCreated, &catalog.CategoryCreatedEvent{})
	serializer.Register(catalog.EventTypeCategoryUpdated, &catalog.CategoryUpdatedEvent{})

	// Partner events
	serializer.Register(partner.EventTypeBranchCreated, &partner.BranchCreatedEvent{})
	serializer.Register(partner.EventTypeBranchUpdated, &partner.BranchUpdatedEvent{})
	serializer.Register(partner.EventTypeBranchStatusChanged, &partner.BranchStatusChangedEvent{})
	serializer.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})
	serializer.Register(partner.EventTypeSupplierUpdated, &partner.SupplierUpdatedEvent{})
	serializer.Register(partner.EventTypeSupplierStatusChanged, &partner.SupplierStatusChangedEvent{})

	// Identity events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	serializer.Register(identity.EventTypeUserDeactivated, &identity.UserDeactivatedEvent{})
}
