package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	domaininventory "github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/transfer"
)

// TransferService drives the branch-to-branch transfer workflow. Shipping
// deducts the source ledger and receiving credits the destination ledger,
// each atomically with the matching status transition; between the two the
// stock is in transit and counted at neither branch.
type TransferService struct {
	transferRepo    transfer.StockTransferRepository
	productRepo     catalog.ProductRepository
	branchRepo      partner.BranchRepository
	recordRepo      domaininventory.RecordRepository
	scope           TransactionScope
	conflictRetries int
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo transfer.StockTransferRepository,
	productRepo catalog.ProductRepository,
	branchRepo partner.BranchRepository,
	recordRepo domaininventory.RecordRepository,
	scope TransactionScope,
	conflictRetries int,
) *TransferService {
	return &TransferService{
		transferRepo:    transferRepo,
		productRepo:     productRepo,
		branchRepo:      branchRepo,
		recordRepo:      recordRepo,
		scope:           scope,
		conflictRetries: conflictRetries,
	}
}

// Request opens a transfer pushing stock out of the actor's branch into the
// destination branch. Source availability is checked here as an early sanity
// check only; the binding check happens against the live ledger when the
// transfer ships.
func (s *TransferService) Request(ctx context.Context, actor shared.Actor, req RequestTransferRequest) (*TransferResponse, error) {
	if !actor.HasCapability(identity.CapabilityTransferRequest) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityTransferRequest)
	}
	if !actor.CanAccessBranch(req.FromBranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Transfers can only be requested from your own branch")
	}

	for _, branchID := range []uuid.UUID{req.FromBranchID, req.ToBranchID} {
		branch, err := s.branchRepo.FindByID(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if !branch.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Branch %s is inactive", branch.Code))
		}
	}

	lines, err := s.buildRequestLines(ctx, req.FromBranchID, req.Items)
	if err != nil {
		return nil, err
	}

	transferNumber, err := s.transferRepo.GenerateTransferNumber(ctx)
	if err != nil {
		return nil, err
	}

	stockTransfer, err := transfer.NewStockTransfer(transferNumber, req.FromBranchID, req.ToBranchID,
		actor.UserID, lines, req.Reason, transfer.Priority(req.Priority), req.Notes)
	if err != nil {
		return nil, err
	}

	events := stockTransfer.GetDomainEvents()
	if err := s.transferRepo.CreateWithEvents(ctx, stockTransfer, events); err != nil {
		return nil, err
	}
	stockTransfer.ClearDomainEvents()

	response := ToTransferResponse(stockTransfer)
	return &response, nil
}

func (s *TransferService) buildRequestLines(ctx context.Context, fromBranchID uuid.UUID, items []TransferItemRequest) ([]transfer.RequestLine, error) {
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

	lines := make([]transfer.RequestLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown product %s", item.ProductID))
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is deactivated", product.SKU))
		}

		available, err := s.availableAtSource(ctx, fromBranchID, product.ID)
		if err != nil {
			return nil, err
		}
		if available < item.Quantity {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Source branch has %d of product %s, %d requested", available, product.SKU, item.Quantity))
		}

		lines = append(lines, transfer.RequestLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    item.Quantity,
		})
	}

	return lines, nil
}

func (s *TransferService) availableAtSource(ctx context.Context, branchID, productID uuid.UUID) (int64, error) {
	record, err := s.recordRepo.FindByBranchAndProduct(ctx, branchID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.Quantity, nil
}

// Approve fixes the approved quantity per line and moves the transfer to
// APPROVED. Only the source branch decides whether stock may leave it.
func (s *TransferService) Approve(ctx context.Context, actor shared.Actor, transferID uuid.UUID, req ApproveTransferRequest) (*TransferResponse, error) {
	if !actor.HasCapability(identity.CapabilityTransferApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityTransferApprove)
	}

	return s.mutateTransfer(ctx, transferID, func(t *transfer.StockTransfer) error {
		if !actor.CanAccessBranch(t.FromBranchID) {
			return shared.NewDomainError("FORBIDDEN", "Only the source branch can approve a transfer")
		}
		return t.Approve(actor.UserID, toQuantityLines(req.Lines))
	})
}

// Reject declines a pending transfer. Either side of the transfer may do it.
func (s *TransferService) Reject(ctx context.Context, actor shared.Actor, transferID uuid.UUID, reason string) (*TransferResponse, error) {
	if !actor.HasCapability(identity.CapabilityTransferApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityTransferApprove)
	}

	return s.mutateTransfer(ctx, transferID, func(t *transfer.StockTransfer) error {
		if !actor.CanAccessBranch(t.FromBranchID) && !actor.CanAccessBranch(t.ToBranchID) {
			return shared.NewDomainError("FORBIDDEN", "Not allowed to reject transfers of other branches")
		}
		return t.Reject(actor.UserID, reason)
	})
}

// Cancel withdraws a pending transfer. The requester may cancel their own
// request; otherwise transfer:approve is required.
func (s *TransferService) Cancel(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	stockTransfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	isRequester := stockTransfer.RequestedBy == actor.UserID
	if !isRequester && !actor.HasCapability(identity.CapabilityTransferApprove) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the requester or an approver may cancel a transfer")
	}

	return s.mutateTransfer(ctx, transferID, func(t *transfer.StockTransfer) error {
		return t.Cancel()
	})
}

// mutateTransfer loads the transfer, applies fn and saves with optimistic
// locking, retrying the whole cycle on version conflicts.
func (s *TransferService) mutateTransfer(ctx context.Context, transferID uuid.UUID, fn func(*transfer.StockTransfer) error) (*TransferResponse, error) {
	var stockTransfer *transfer.StockTransfer
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		stockTransfer, err = s.transferRepo.FindByID(ctx, transferID)
		if err != nil {
			return err
		}
		if err := fn(stockTransfer); err != nil {
			return err
		}
		events := stockTransfer.GetDomainEvents()
		if err := s.transferRepo.SaveWithLockAndEvents(ctx, stockTransfer, events); err != nil {
			return err
		}
		stockTransfer.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(stockTransfer)
	return &response, nil
}

// Ship moves an approved transfer into transit. The source ledger deductions
// and the status change commit in one transaction; a line without enough
// stock on hand aborts everything.
func (s *TransferService) Ship(ctx context.Context, actor shared.Actor, transferID uuid.UUID, req ShipTransferRequest) (*TransferResponse, error) {
	if !actor.HasCapability(identity.CapabilityTransferShip) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityTransferShip)
	}

	var stockTransfer *transfer.StockTransfer
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			stockTransfer, err = repos.TransferRepo().FindByID(ctx, transferID)
			if err != nil {
				return err
			}
			if !actor.CanAccessBranch(stockTransfer.FromBranchID) {
				return shared.NewDomainError("FORBIDDEN", "Only the source branch can ship a transfer")
			}

			shipped, err := stockTransfer.Ship(actor.UserID, toQuantityLines(req.Lines), req.ShippingNotes)
			if err != nil {
				return err
			}

			for _, line := range shipped {
				_, err := appinventory.PostDeduction(ctx, repos,
					stockTransfer.FromBranchID, line.ProductID, line.Quantity,
					domaininventory.MovementTypeTransferOut,
					stockTransfer.TransferNumber, actor.UserID)
				if err != nil {
					return err
				}
			}

			events := stockTransfer.GetDomainEvents()
			if err := repos.TransferRepo().SaveWithLockAndEvents(ctx, stockTransfer, events); err != nil {
				return err
			}
			stockTransfer.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(stockTransfer)
	return &response, nil
}

// Receive completes an in-transit transfer. The destination ledger increases
// and the status change commit in one transaction; records missing at the
// destination are created on the fly with the product's low-stock threshold
// as their reorder point.
func (s *TransferService) Receive(ctx context.Context, actor shared.Actor, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	if !actor.HasCapability(identity.CapabilityTransferReceive) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityTransferReceive)
	}

	current, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	// Low-stock thresholds seed the reorder point of lazily created records
	ids := make([]uuid.UUID, 0, len(current.Items))
	for i := range current.Items {
		ids = append(ids, current.Items[i].ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	thresholds := make(map[uuid.UUID]int64, len(products))
	for i := range products {
		thresholds[products[i].ID] = products[i].LowStockThreshold
	}

	var stockTransfer *transfer.StockTransfer
	err = appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			stockTransfer, err = repos.TransferRepo().FindByID(ctx, transferID)
			if err != nil {
				return err
			}
			if !actor.CanAccessBranch(stockTransfer.ToBranchID) {
				return shared.NewDomainError("FORBIDDEN", "Only the destination branch can receive a transfer")
			}

			received, err := stockTransfer.Receive(actor.UserID, toQuantityLines(req.Lines), req.ReceivingNotes)
			if err != nil {
				return err
			}

			for _, line := range received {
				_, err := appinventory.PostIncrease(ctx, repos,
					stockTransfer.ToBranchID, line.ProductID, line.Quantity,
					domaininventory.MovementTypeTransferIn,
					stockTransfer.TransferNumber, actor.UserID, thresholds[line.ProductID])
				if err != nil {
					return err
				}
			}

			events := stockTransfer.GetDomainEvents()
			if err := repos.TransferRepo().SaveWithLockAndEvents(ctx, stockTransfer, events); err != nil {
				return err
			}
			stockTransfer.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(stockTransfer)
	return &response, nil
}

// Get retrieves a stock transfer by ID
func (s *TransferService) Get(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	stockTransfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessBranch(stockTransfer.FromBranchID) && !actor.CanAccessBranch(stockTransfer.ToBranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view transfers of other branches")
	}

	response := ToTransferResponse(stockTransfer)
	return &response, nil
}

// GetByNumber retrieves a stock transfer by its transfer number
func (s *TransferService) GetByNumber(ctx context.Context, actor shared.Actor, transferNumber string) (*TransferResponse, error) {
	stockTransfer, err := s.transferRepo.FindByTransferNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, stockTransfer.ID)
}

// List retrieves stock transfers with filtering and pagination. Actors
// without branch:all only see transfers touching their own branch.
func (s *TransferService) List(ctx context.Context, actor shared.Actor, filter TransferListFilter) ([]TransferResponse, int64, error) {
	domainFilter, err := buildTransferFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	branchID := filter.BranchID
	if branchID != nil {
		if !actor.CanAccessBranch(*branchID) {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view transfers of other branches")
		}
	} else if !actor.HasCapability(shared.CapabilityAllBranches) {
		branchID = &actor.BranchID
	}

	if branchID != nil {
		switch filter.Direction {
		case "INBOUND":
			domainFilter.Filters["to_branch_id"] = *branchID
		case "OUTBOUND":
			domainFilter.Filters["from_branch_id"] = *branchID
		default:
			domainFilter.Filters["involves_branch_id"] = *branchID
		}
	}

	transfers, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transferRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferResponses(transfers), total, nil
}

// ListInbound lists transfers headed for the given branch
func (s *TransferService) ListInbound(ctx context.Context, actor shared.Actor, branchID uuid.UUID, filter TransferListFilter) ([]TransferResponse, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view transfers of other branches")
	}
	domainFilter, err := buildTransferFilter(filter)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.FindInbound(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// ListOutbound lists transfers leaving the given branch
func (s *TransferService) ListOutbound(ctx context.Context, actor shared.Actor, branchID uuid.UUID, filter TransferListFilter) ([]TransferResponse, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view transfers of other branches")
	}
	domainFilter, err := buildTransferFilter(filter)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.FindOutbound(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// CountByStatus returns the number of transfers currently in a status
func (s *TransferService) CountByStatus(ctx context.Context, status string) (int64, error) {
	transferStatus := transfer.Status(status)
	if !transferStatus.IsValid() {
		return 0, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown transfer status %q", status))
	}
	return s.transferRepo.CountByStatus(ctx, transferStatus)
}

func toQuantityLines(lines []QuantityLineRequest) []transfer.QuantityLine {
	if len(lines) == 0 {
		return nil
	}
	result := make([]transfer.QuantityLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, transfer.QuantityLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return result
}

func buildTransferFilter(filter TransferListFilter) (shared.Filter, error) {
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
		status := transfer.Status(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown transfer status %q", filter.Status))
		}
		domainFilter.Filters["status"] = status
	}
	if filter.Priority != "" {
		priority := transfer.Priority(filter.Priority)
		if !priority.IsValid() {
			return domainFilter, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown transfer priority %q", filter.Priority))
		}
		domainFilter.Filters["priority"] = priority
	}
	return domainFilter, nil
}
