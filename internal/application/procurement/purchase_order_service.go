package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	domaininventory "github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/procurement"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService drives the procurement workflow: creation with the
// auto-approval policy, the approval chain, and transactional goods receipts
// that feed the destination branch ledger.
type PurchaseOrderService struct {
	orderRepo            procurement.PurchaseOrderRepository
	productRepo          catalog.ProductRepository
	supplierRepo         partner.SupplierRepository
	branchRepo           partner.BranchRepository
	scope                TransactionScope
	autoApproveThreshold decimal.Decimal
	conflictRetries      int
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	branchRepo partner.BranchRepository,
	scope TransactionScope,
	autoApproveThreshold decimal.Decimal,
	conflictRetries int,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:            orderRepo,
		productRepo:          productRepo,
		supplierRepo:         supplierRepo,
		branchRepo:           branchRepo,
		scope:                scope,
		autoApproveThreshold: autoApproveThreshold,
		conflictRetries:      conflictRetries,
	}
}

// Create creates a purchase order for the actor's branch. Orders below the
// auto-approval threshold skip the approval queue: they are approved with the
// creator recorded as approver and sent to the supplier in one step.
func (s *PurchaseOrderService) Create(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	if !actor.HasCapability(identity.CapabilityProcurementCreate) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProcurementCreate)
	}
	if !actor.CanAccessBranch(req.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to order for another branch")
	}

	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot order for an inactive branch")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot order from an inactive supplier")
	}

	lines, err := s.buildOrderLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, branch.Code)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name, req.BranchID, actor.UserID, lines, req.Notes)
	if err != nil {
		return nil, err
	}

	if order.TotalCost.LessThan(s.autoApproveThreshold) {
		if err := order.Approve(actor.UserID); err != nil {
			return nil, err
		}
	}

	events := order.GetDomainEvents()
	if err := s.orderRepo.CreateWithEvents(ctx, order, events); err != nil {
		return nil, err
	}
	order.ClearDomainEvents()

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) buildOrderLines(ctx context.Context, items []OrderItemRequest) ([]procurement.OrderLine, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]procurement.OrderLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown product %s", item.ProductID))
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is deactivated", product.SKU))
		}

		unitCost := item.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostPrice
		}

		lines = append(lines, procurement.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    item.Quantity,
			UnitCost:    unitCost,
		})
	}

	return lines, nil
}

// Approve approves a pending order and dispatches it to the supplier
func (s *PurchaseOrderService) Approve(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.HasCapability(identity.CapabilityProcurementApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProcurementApprove)
	}

	return s.mutateOrder(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Approve(actor.UserID)
	})
}

// Reject rejects a pending order with a reason
func (s *PurchaseOrderService) Reject(ctx context.Context, actor shared.Actor, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	if !actor.HasCapability(identity.CapabilityProcurementApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProcurementApprove)
	}

	return s.mutateOrder(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Reject(actor.UserID, reason)
	})
}

// Cancel closes an order before any goods have been received. The creator may
// cancel their own orders; otherwise procurement:approve is required.
func (s *PurchaseOrderService) Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	isCreator := order.CreatedBy != nil && *order.CreatedBy == actor.UserID
	if !(isCreator && actor.HasCapability(identity.CapabilityProcurementCreate)) &&
		!actor.HasCapability(identity.CapabilityProcurementApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the creator or an approver may cancel an order")
	}

	return s.mutateOrder(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(reason)
	})
}

// mutateOrder loads the order, applies fn and saves with optimistic locking,
// retrying the whole cycle on version conflicts.
func (s *PurchaseOrderService) mutateOrder(ctx context.Context, orderID uuid.UUID, fn func(*procurement.PurchaseOrder) error) (*OrderResponse, error) {
	var order *procurement.PurchaseOrder
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		order, err = s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		events := order.GetDomainEvents()
		if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
			return err
		}
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Receive posts goods receipts against a sent order. The order mutation and
// the ledger increases at the destination branch commit in one transaction;
// any line exceeding its ordered quantity aborts everything.
func (s *PurchaseOrderService) Receive(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req ReceiveOrderRequest) (*OrderResponse, error) {
	if !actor.HasCapability(identity.CapabilityProcurementReceive) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProcurementReceive)
	}

	lines := make([]procurement.ReceiveLine, 0, len(req.Lines))
	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, procurement.ReceiveLine{ProductID: line.ProductID, Quantity: line.Quantity})
		ids = append(ids, line.ProductID)
	}

	// Low-stock thresholds seed the reorder point of lazily created records
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	thresholds := make(map[uuid.UUID]int64, len(products))
	for i := range products {
		thresholds[products[i].ID] = products[i].LowStockThreshold
	}

	var order *procurement.PurchaseOrder
	err = appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			order, err = repos.OrderRepo().FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			if !actor.CanAccessBranch(order.BranchID) {
				return shared.NewDomainError("FORBIDDEN", "Not allowed to receive goods for another branch")
			}

			received, err := order.Receive(lines)
			if err != nil {
				return err
			}

			for _, line := range received {
				_, err := appinventory.PostIncrease(ctx, repos,
					order.BranchID, line.ProductID, line.Quantity,
					domaininventory.MovementTypePurchaseReceipt,
					order.OrderNumber, actor.UserID, thresholds[line.ProductID])
				if err != nil {
					return err
				}
			}

			events := order.GetDomainEvents()
			if err := repos.OrderRepo().SaveWithLockAndEvents(ctx, order, events); err != nil {
				return err
			}
			order.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Get retrieves a purchase order by ID
func (s *PurchaseOrderService) Get(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(order.BranchID) && !actor.HasCapability(identity.CapabilityProcurementApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view orders of another branch")
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves a purchase order by its order number
func (s *PurchaseOrderService) GetByNumber(ctx context.Context, actor shared.Actor, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, order.ID)
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, actor shared.Actor, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	if filter.BranchID != nil {
		if !actor.CanAccessBranch(*filter.BranchID) && !actor.HasCapability(identity.CapabilityProcurementApprove) {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view orders of another branch")
		}
	} else if !actor.HasCapability(shared.CapabilityAllBranches) && !actor.HasCapability(identity.CapabilityProcurementApprove) {
		domainFilter.Filters["branch_id"] = actor.BranchID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// CountByStatus returns the number of orders currently in a status
func (s *PurchaseOrderService) CountByStatus(ctx context.Context, status string) (int64, error) {
	orderStatus := procurement.Status(status)
	if !orderStatus.IsValid() {
		return 0, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown order status %q", status))
	}
	return s.orderRepo.CountByStatus(ctx, orderStatus)
}

func buildOrderFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.BranchID != nil {
		domainFilter.Filters["branch_id"] = *filter.BranchID
	}
	return domainFilter
}
