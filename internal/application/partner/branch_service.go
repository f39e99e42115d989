package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// BranchService manages retail branches. The branch code feeds sale and
// purchase order numbering, so it is immutable after creation.
type BranchService struct {
	branchRepo      partner.BranchRepository
	userRepo        identity.UserRepository
	eventPublisher  shared.EventPublisher
	conflictRetries int
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo partner.BranchRepository, userRepo identity.UserRepository, conflictRetries int) *BranchService {
	return &BranchService{
		branchRepo:      branchRepo,
		userRepo:        userRepo,
		conflictRetries: conflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BranchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new branch. Code and name must be unused.
func (s *BranchService) Create(ctx context.Context, actor shared.Actor, req CreateBranchRequest) (*BranchResponse, error) {
	if !actor.HasCapability(identity.CapabilityBranchManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityBranchManage)
	}

	code := strings.ToUpper(req.Code)
	taken, err := s.branchRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Branch code %s is already in use", code))
	}

	taken, err = s.branchRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Branch name %q is already in use", req.Name))
	}

	branch, err := partner.NewBranch(req.Code, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	branch.City = req.City
	branch.Phone = req.Phone
	branch.Email = req.Email
	if len(req.Zones) > 0 {
		if err := branch.SetZones(req.Zones); err != nil {
			return nil, err
		}
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, branch)

	response := ToBranchResponse(branch)
	return &response, nil
}

// Update updates a branch's contact details and zones
func (s *BranchService) Update(ctx context.Context, actor shared.Actor, branchID uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	if !actor.HasCapability(identity.CapabilityBranchManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityBranchManage)
	}

	return s.mutateBranch(ctx, branchID, func(branch *partner.Branch) error {
		if req.Name != branch.Name {
			taken, err := s.branchRepo.ExistsByName(ctx, req.Name)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Branch name %q is already in use", req.Name))
			}
		}

		if err := branch.Update(req.Name, req.Address, req.City, req.Phone, req.Email); err != nil {
			return err
		}
		if req.Zones != nil {
			if err := branch.SetZones(req.Zones); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssignManager sets the branch manager. The manager must be an existing
// active user.
func (s *BranchService) AssignManager(ctx context.Context, actor shared.Actor, branchID uuid.UUID, managerID uuid.UUID) (*BranchResponse, error) {
	if !actor.HasCapability(identity.CapabilityBranchManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityBranchManage)
	}

	manager, err := s.userRepo.FindByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if !manager.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot assign an inactive user as branch manager")
	}

	return s.mutateBranch(ctx, branchID, func(branch *partner.Branch) error {
		return branch.AssignManager(managerID)
	})
}

// Activate reopens a branch for operations
func (s *BranchService) Activate(ctx context.Context, actor shared.Actor, branchID uuid.UUID) (*BranchResponse, error) {
	if !actor.HasCapability(identity.CapabilityBranchManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityBranchManage)
	}

	return s.mutateBranch(ctx, branchID, func(branch *partner.Branch) error {
		return branch.Activate()
	})
}

// Deactivate closes a branch. Inactive branches are rejected as the target
// of purchase orders and either side of transfers; their stock stays on the
// ledger.
func (s *BranchService) Deactivate(ctx context.Context, actor shared.Actor, branchID uuid.UUID) (*BranchResponse, error) {
	if !actor.HasCapability(identity.CapabilityBranchManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityBranchManage)
	}

	return s.mutateBranch(ctx, branchID, func(branch *partner.Branch) error {
		return branch.Deactivate()
	})
}

func (s *BranchService) mutateBranch(ctx context.Context, branchID uuid.UUID, fn func(*partner.Branch) error) (*BranchResponse, error) {
	var branch *partner.Branch
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		branch, err = s.branchRepo.FindByID(ctx, branchID)
		if err != nil {
			return err
		}
		if err := fn(branch); err != nil {
			return err
		}
		return s.branchRepo.SaveWithLock(ctx, branch)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, branch)

	response := ToBranchResponse(branch)
	return &response, nil
}

// Get retrieves a branch by ID
func (s *BranchService) Get(ctx context.Context, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	response := ToBranchResponse(branch)
	return &response, nil
}

// GetByCode retrieves a branch by code
func (s *BranchService) GetByCode(ctx context.Context, code string) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	response := ToBranchResponse(branch)
	return &response, nil
}

// List retrieves branches with filtering and pagination
func (s *BranchService) List(ctx context.Context, filter BranchListFilter) ([]BranchResponse, int64, error) {
	domainFilter := buildBranchFilter(filter)

	branches, err := s.branchRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.branchRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBranchResponses(branches), total, nil
}

// ListActive retrieves active branches, the transfer destination picker
func (s *BranchService) ListActive(ctx context.Context, filter BranchListFilter) ([]BranchResponse, error) {
	branches, err := s.branchRepo.FindActive(ctx, buildBranchFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToBranchResponses(branches), nil
}

func (s *BranchService) publishEvents(ctx context.Context, branch *partner.Branch) {
	events := branch.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	branch.ClearDomainEvents()
}

func buildBranchFilter(filter BranchListFilter) shared.Filter {
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
	domainFilter.Search = filter.Search
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}
