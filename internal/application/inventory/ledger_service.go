package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// LedgerService handles inventory ledger queries and record settings.
// Stock mutations go through the workflow services (procurement, transfer,
// sales) and the AdjustmentService; the ledger service never changes
// quantities directly.
type LedgerService struct {
	recordRepo      inventory.RecordRepository
	movementRepo    inventory.MovementRepository
	eventPublisher  shared.EventPublisher
	conflictRetries int
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	recordRepo inventory.RecordRepository,
	movementRepo inventory.MovementRepository,
	conflictRetries int,
) *LedgerService {
	return &LedgerService{
		recordRepo:      recordRepo,
		movementRepo:    movementRepo,
		conflictRetries: conflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetRecord retrieves the inventory record for a branch-product combination
func (s *LedgerService) GetRecord(ctx context.Context, actor shared.Actor, branchID, productID uuid.UUID) (*RecordResponse, error) {
	if !actor.CanAccessBranch(branchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to view inventory of another branch")
	}

	record, err := s.recordRepo.FindByBranchAndProduct(ctx, branchID, productID)
	if err != nil {
		return nil, err
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// GetQuantity returns the current stock quantity for a branch-product
// combination. A missing record reads as NOT_FOUND, not zero.
func (s *LedgerService) GetQuantity(ctx context.Context, actor shared.Actor, branchID, productID uuid.UUID) (int64, error) {
	if !actor.CanAccessBranch(branchID) {
		return 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view inventory of another branch")
	}

	record, err := s.recordRepo.FindByBranchAndProduct(ctx, branchID, productID)
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

// List retrieves inventory records with filtering and pagination
func (s *LedgerService) List(ctx context.Context, actor shared.Actor, filter RecordListFilter) ([]RecordResponse, int64, error) {
	domainFilter := buildRecordFilter(filter)

	if filter.BranchID != nil {
		if !actor.CanAccessBranch(*filter.BranchID) {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view inventory of another branch")
		}
	} else if !actor.HasCapability(shared.CapabilityAllBranches) {
		// Scope the listing to the actor's home branch
		domainFilter.Filters["branch_id"] = actor.BranchID
	}

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), total, nil
}

// ListByBranch retrieves the inventory records of one branch
func (s *LedgerService) ListByBranch(ctx context.Context, actor shared.Actor, branchID uuid.UUID, filter RecordListFilter) ([]RecordResponse, int64, error) {
	filter.BranchID = &branchID
	return s.List(ctx, actor, filter)
}

// ListLowStock retrieves records at or below their reorder point
func (s *LedgerService) ListLowStock(ctx context.Context, actor shared.Actor, branchID uuid.UUID, filter RecordListFilter) ([]RecordResponse, int64, error) {
	if branchID != uuid.Nil && !actor.CanAccessBranch(branchID) {
		return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view inventory of another branch")
	}
	if branchID == uuid.Nil && !actor.HasCapability(shared.CapabilityAllBranches) {
		branchID = actor.BranchID
	}

	domainFilter := buildRecordFilter(filter)
	domainFilter.Filters["low_stock"] = true

	records, err := s.recordRepo.FindAtOrBelowReorderPoint(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), int64(len(records)), nil
}

// ListMovements retrieves the stock movement audit trail
func (s *LedgerService) ListMovements(ctx context.Context, actor shared.Actor, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := buildMovementFilter(filter)

	branchID := actor.BranchID
	if filter.BranchID != nil {
		if !actor.CanAccessBranch(*filter.BranchID) {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view movements of another branch")
		}
		branchID = *filter.BranchID
	} else if actor.HasCapability(shared.CapabilityAllBranches) {
		branchID = uuid.Nil
	}

	movements, err := s.movementRepo.FindByBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// SetReorderPoint updates the reorder threshold for a branch-product record
func (s *LedgerService) SetReorderPoint(ctx context.Context, actor shared.Actor, req SetReorderPointRequest) (*RecordResponse, error) {
	if !actor.HasCapability(identity.CapabilityInventoryAdjust) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityInventoryAdjust)
	}
	if !actor.CanAccessBranch(req.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to change inventory of another branch")
	}

	var record *inventory.InventoryRecord
	err := ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		record, err = s.recordRepo.GetOrCreate(ctx, req.BranchID, req.ProductID)
		if err != nil {
			return err
		}
		if err := record.SetReorderPoint(req.ReorderPoint); err != nil {
			return err
		}
		return s.recordRepo.SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// SetBinLocation updates the physical bin location for a branch-product record
func (s *LedgerService) SetBinLocation(ctx context.Context, actor shared.Actor, req SetBinLocationRequest) (*RecordResponse, error) {
	if !actor.HasCapability(identity.CapabilityInventoryAdjust) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityInventoryAdjust)
	}
	if !actor.CanAccessBranch(req.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to change inventory of another branch")
	}

	var record *inventory.InventoryRecord
	err := ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		record, err = s.recordRepo.GetOrCreate(ctx, req.BranchID, req.ProductID)
		if err != nil {
			return err
		}
		if err := record.SetBinLocation(req.BinLocation); err != nil {
			return err
		}
		return s.recordRepo.SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// ScanReorderPoints finds every record at or below its reorder point and
// republishes a low-stock event for each. The scheduler runs this
// periodically so alerts are not lost when the original event was missed.
func (s *LedgerService) ScanReorderPoints(ctx context.Context) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500

	records, err := s.recordRepo.FindAtOrBelowReorderPoint(ctx, uuid.Nil, filter)
	if err != nil {
		return 0, err
	}

	if s.eventPublisher == nil {
		return len(records), nil
	}

	for i := range records {
		event := inventory.NewStockBelowReorderPointEvent(&records[i])
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			return i, err
		}
	}

	return len(records), nil
}

func buildRecordFilter(filter RecordListFilter) shared.Filter {
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
	if filter.BranchID != nil {
		domainFilter.Filters["branch_id"] = *filter.BranchID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LowStock != nil && *filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}
	return domainFilter
}

func buildMovementFilter(filter MovementListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "occurred_at"
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
	if filter.BranchID != nil {
		domainFilter.Filters["branch_id"] = *filter.BranchID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Reference != "" {
		domainFilter.Filters["reference"] = filter.Reference
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	return domainFilter
}
