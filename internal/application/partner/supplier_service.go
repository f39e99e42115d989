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

// SupplierService manages suppliers. Deactivating a supplier blocks new
// purchase orders; open orders keep running.
type SupplierService struct {
	supplierRepo    partner.SupplierRepository
	eventPublisher  shared.EventPublisher
	conflictRetries int
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, conflictRetries int) *SupplierService {
	return &SupplierService{
		supplierRepo:    supplierRepo,
		conflictRetries: conflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier. The code must be unused.
func (s *SupplierService) Create(ctx context.Context, actor shared.Actor, req CreateSupplierRequest) (*SupplierResponse, error) {
	if !actor.HasCapability(identity.CapabilitySupplierManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySupplierManage)
	}

	code := strings.ToUpper(req.Code)
	taken, err := s.supplierRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Supplier code %s is already in use", code))
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.TaxID = req.TaxID

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update updates a supplier's contact information
func (s *SupplierService) Update(ctx context.Context, actor shared.Actor, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	if !actor.HasCapability(identity.CapabilitySupplierManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySupplierManage)
	}

	return s.mutateSupplier(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address)
	})
}

// Activate restores a supplier for new purchase orders
func (s *SupplierService) Activate(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*SupplierResponse, error) {
	if !actor.HasCapability(identity.CapabilitySupplierManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySupplierManage)
	}

	return s.mutateSupplier(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Activate()
	})
}

// Deactivate blocks new purchase orders with this supplier
func (s *SupplierService) Deactivate(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*SupplierResponse, error) {
	if !actor.HasCapability(identity.CapabilitySupplierManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilitySupplierManage)
	}

	return s.mutateSupplier(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Deactivate()
	})
}

func (s *SupplierService) mutateSupplier(ctx context.Context, supplierID uuid.UUID, fn func(*partner.Supplier) error) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		supplier, err = s.supplierRepo.FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if err := fn(supplier); err != nil {
			return err
		}
		return s.supplierRepo.SaveWithLock(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Get retrieves a supplier by ID
func (s *SupplierService) Get(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := buildSupplierFilter(filter)

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplierResponses(suppliers), total, nil
}

// ListActive retrieves active suppliers, the purchase order supplier picker
func (s *SupplierService) ListActive(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindActive(ctx, buildSupplierFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToSupplierResponses(suppliers), nil
}

func (s *SupplierService) publishEvents(ctx context.Context, supplier *partner.Supplier) {
	events := supplier.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	supplier.ClearDomainEvents()
}

func buildSupplierFilter(filter SupplierListFilter) shared.Filter {
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
