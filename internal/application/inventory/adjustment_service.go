package inventory

import (
	"context"
	"fmt"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// AdjustmentService posts manual stock corrections and serves the
// append-only adjustment history.
type AdjustmentService struct {
	scope           TransactionScope
	adjustmentRepo  inventory.AdjustmentRepository
	eventPublisher  shared.EventPublisher
	conflictRetries int
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	scope TransactionScope,
	adjustmentRepo inventory.AdjustmentRepository,
	conflictRetries int,
) *AdjustmentService {
	return &AdjustmentService{
		scope:           scope,
		adjustmentRepo:  adjustmentRepo,
		conflictRetries: conflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Adjust applies a manual stock correction. The ledger mutation, the
// adjustment audit row and the movement row are written in one transaction;
// a version conflict retries the whole transaction.
func (s *AdjustmentService) Adjust(ctx context.Context, actor shared.Actor, req AdjustRequest) (*AdjustmentResponse, error) {
	if !actor.HasCapability(identity.CapabilityInventoryAdjust) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityInventoryAdjust)
	}
	if !actor.CanAccessBranch(req.BranchID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to adjust inventory of another branch")
	}

	direction := inventory.AdjustmentDirection(req.Direction)
	if !direction.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment direction")
	}
	reason := inventory.AdjustmentReason(req.Reason)
	if !reason.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid adjustment reason %q", req.Reason))
	}

	var (
		adjustment *inventory.Adjustment
		events     []shared.DomainEvent
	)

	err := ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			record, err := repos.RecordRepo().GetOrCreate(ctx, req.BranchID, req.ProductID)
			if err != nil {
				return err
			}

			quantityBefore := record.Quantity

			adjustment, err = inventory.NewAdjustment(record, direction, req.Quantity, reason, req.Note, quantityBefore, actor.UserID)
			if err != nil {
				return err
			}
			reference := fmt.Sprintf("ADJ-%s", adjustment.ID)

			movementType := direction.MovementType()
			if direction == inventory.AdjustmentDirectionIncrease {
				err = record.Increase(req.Quantity, movementType, reference)
			} else {
				err = record.Deduct(req.Quantity, movementType, reference)
			}
			if err != nil {
				return err
			}
			record.AddDomainEvent(inventory.NewStockAdjustedEvent(record, adjustment))

			if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Create(ctx, adjustment); err != nil {
				return err
			}

			movement, err := inventory.NewMovement(record, movementType, req.Quantity, quantityBefore, reference, actor.UserID)
			if err != nil {
				return err
			}
			movement.WithNote(req.Note)
			if err := repos.MovementRepo().Create(ctx, movement); err != nil {
				return err
			}

			events = record.GetDomainEvents()
			record.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// History retrieves the adjustment audit trail. Actors see their own branch;
// inventory:audit (or branch:all) opens every branch.
func (s *AdjustmentService) History(ctx context.Context, actor shared.Actor, filter AdjustmentListFilter) ([]AdjustmentResponse, int64, error) {
	canAuditAll := actor.HasCapability(identity.CapabilityInventoryAudit) ||
		actor.HasCapability(shared.CapabilityAllBranches)

	domainFilter := buildAdjustmentFilter(filter)

	if filter.BranchID != nil {
		if *filter.BranchID != actor.BranchID && !canAuditAll {
			return nil, 0, shared.NewDomainError("FORBIDDEN", "Not allowed to view adjustments of another branch")
		}
	} else if !canAuditAll {
		domainFilter.Filters["branch_id"] = actor.BranchID
	}

	adjustments, err := s.adjustmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.adjustmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAdjustmentResponses(adjustments), total, nil
}

func buildAdjustmentFilter(filter AdjustmentListFilter) shared.Filter {
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
	if filter.Reason != "" {
		domainFilter.Filters["reason"] = filter.Reason
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	return domainFilter
}
