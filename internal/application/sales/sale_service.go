package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	domaininventory "github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/sales"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptRenderer renders a sale into a printable receipt document.
type ReceiptRenderer interface {
	Render(ctx context.Context, sale *sales.Sale) ([]byte, error)
}

// SaleService rings up point-of-sale transactions. A checkout persists the
// sale and every matching ledger deduction in one transaction, so a sale
// either exists with all its stock effects or not at all.
type SaleService struct {
	saleRepo        sales.SaleRepository
	productRepo     catalog.ProductRepository
	branchRepo      partner.BranchRepository
	scope           TransactionScope
	receiptRenderer ReceiptRenderer
	taxRate         decimal.Decimal
	conflictRetries int
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	branchRepo partner.BranchRepository,
	scope TransactionScope,
	taxRate decimal.Decimal,
	conflictRetries int,
) *SaleService {
	return &SaleService{
		saleRepo:        saleRepo,
		productRepo:     productRepo,
		branchRepo:      branchRepo,
		scope:           scope,
		taxRate:         taxRate,
		conflictRetries: conflictRetries,
	}
}

// SetReceiptRenderer wires the receipt rendering backend
func (s *SaleService) SetReceiptRenderer(renderer ReceiptRenderer) {
	s.receiptRenderer = renderer
}

// Checkout rings up a sale at the actor's branch. Product details are
// snapshotted from the catalog at this moment; later catalog edits never
// change the recorded sale.
func (s *SaleService) Checkout(ctx context.Context, actor shared.Actor, req CheckoutRequest) (*SaleResponse, error) {
	if !actor.HasCapability(identity.CapabilitySalesCreate) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySalesCreate)
	}
	if !actor.CanAccessBranch(req.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to sell for another branch")
	}

	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot sell at an inactive branch")
	}

	lines, err := s.buildCheckoutLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	saleNumber, err := s.saleRepo.GenerateSaleNumber(ctx, branch.Code)
	if err != nil {
		return nil, err
	}

	// Totals and payment are validated before any stock is touched
	sale, err := sales.NewSale(saleNumber, req.BranchID, actor.UserID, lines,
		s.taxRate, req.Discount, req.AmountPaid, sales.PaymentMethod(req.PaymentMethod),
		req.TillNumber, req.Notes)
	if err != nil {
		return nil, err
	}

	err = appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			for i := range sale.Items {
				item := &sale.Items[i]
				_, err := appinventory.PostDeduction(ctx, repos,
					sale.BranchID, item.ProductID, item.QuantitySold,
					domaininventory.MovementTypeSale,
					sale.SaleNumber, actor.UserID)
				if err != nil {
					return err
				}
			}

			return repos.SaleRepo().CreateWithEvents(ctx, sale, sale.GetDomainEvents())
		})
	})
	if err != nil {
		return nil, err
	}
	sale.ClearDomainEvents()

	response := ToSaleResponse(sale)
	return &response, nil
}

func (s *SaleService) buildCheckoutLines(ctx context.Context, items []CheckoutItemRequest) ([]sales.CheckoutLine, error) {
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

	lines := make([]sales.CheckoutLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown product %s", item.ProductID))
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is deactivated", product.SKU))
		}

		lines = append(lines, sales.CheckoutLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Barcode:     product.Barcode,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
	}

	return lines, nil
}

// Cancel voids a completed sale and puts its stock back on the shelf. The
// status flip and every ledger restoration commit in one transaction, and
// the optimistic version guarantees the restoration happens exactly once
// even under a concurrent double-cancel.
func (s *SaleService) Cancel(ctx context.Context, actor shared.Actor, saleID uuid.UUID, reason string) (*SaleResponse, error) {
	if !actor.HasCapability(identity.CapabilitySalesCancel) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySalesCancel)
	}

	var sale *sales.Sale
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			sale, err = repos.SaleRepo().FindByID(ctx, saleID)
			if err != nil {
				return err
			}
			if !actor.CanAccessBranch(sale.BranchID) {
				return shared.NewDomainError("FORBIDDEN", "Not allowed to cancel sales of another branch")
			}

			if err := sale.Cancel(actor.UserID, reason); err != nil {
				return err
			}

			for i := range sale.Items {
				item := &sale.Items[i]
				_, err := appinventory.PostIncrease(ctx, repos,
					sale.BranchID, item.ProductID, item.QuantitySold,
					domaininventory.MovementTypeSaleCancellation,
					sale.SaleNumber, actor.UserID, 0)
				if err != nil {
					return err
				}
			}

			if err := repos.SaleRepo().SaveWithLockAndEvents(ctx, sale, sale.GetDomainEvents()); err != nil {
				return err
			}
			sale.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Get retrieves a sale by ID
func (s *SaleService) Get(ctx context.Context, actor shared.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(sale.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view sales of another branch")
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByNumber retrieves a sale by its sale number
func (s *SaleService) GetByNumber(ctx context.Context, actor shared.Actor, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindBySaleNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, sale.ID)
}

// List retrieves sales with filtering and pagination. Actors without
// branch:all only see their own branch.
func (s *SaleService) List(ctx context.Context, actor shared.Actor, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter, err := buildSaleFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	if filter.BranchID != nil {
		if !actor.CanAccessBranch(*filter.BranchID) {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view sales of another branch")
		}
		domainFilter.Filters["branch_id"] = *filter.BranchID
	} else if !actor.HasCapability(shared.CapabilityAllBranches) {
		domainFilter.Filters["branch_id"] = actor.BranchID
	}

	saleList, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(saleList), total, nil
}

// ListBySeller retrieves the sales a user rang up, newest first
func (s *SaleService) ListBySeller(ctx context.Context, actor shared.Actor, soldBy uuid.UUID, filter SaleListFilter) ([]SaleResponse, error) {
	if soldBy != actor.UserID && !actor.HasCapability(shared.CapabilityAllBranches) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view sales of other users")
	}
	domainFilter, err := buildSaleFilter(filter)
	if err != nil {
		return nil, err
	}
	saleList, err := s.saleRepo.FindBySoldBy(ctx, soldBy, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(saleList), nil
}

// ListByDateRange retrieves a branch's sales inside a time window
func (s *SaleService) ListByDateRange(ctx context.Context, actor shared.Actor, branchID uuid.UUID, from, to time.Time, filter SaleListFilter) ([]SaleResponse, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view sales of another branch")
	}
	if !to.After(from) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Date range end must be after start")
	}
	domainFilter, err := buildSaleFilter(filter)
	if err != nil {
		return nil, err
	}
	saleList, err := s.saleRepo.FindByDateRange(ctx, branchID, from, to, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(saleList), nil
}

// DailySummary aggregates a branch's sales for the day containing date
func (s *SaleService) DailySummary(ctx context.Context, actor shared.Actor, branchID uuid.UUID, date time.Time) (*sales.DailySummary, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view sales of another branch")
	}
	return s.saleRepo.SummarizeDay(ctx, branchID, date)
}

// RenderReceipt renders the sale into a printable receipt document
func (s *SaleService) RenderReceipt(ctx context.Context, actor shared.Actor, saleID uuid.UUID) ([]byte, error) {
	if s.receiptRenderer == nil {
		return nil, shared.NewDomainError("INTERNAL", "Receipt rendering is not configured")
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(sale.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to print receipts of another branch")
	}

	return s.receiptRenderer.Render(ctx, sale)
}

func buildSaleFilter(filter SaleListFilter) (shared.Filter, error) {
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
		status := sales.Status(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown sale status %q", filter.Status))
		}
		domainFilter.Filters["status"] = status
	}
	if filter.PaymentMethod != "" {
		method := sales.PaymentMethod(filter.PaymentMethod)
		if !method.IsValid() {
			return domainFilter, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown payment method %q", filter.PaymentMethod))
		}
		domainFilter.Filters["payment_method"] = method
	}
	if filter.SoldBy != nil {
		domainFilter.Filters["sold_by"] = *filter.SoldBy
	}
	if filter.From != nil {
		domainFilter.Filters["sold_from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["sold_to"] = *filter.To
	}
	return domainFilter, nil
}
