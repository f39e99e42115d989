package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
)

// CategoryService manages product categories
type CategoryService struct {
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new category. Name and slug must be unused.
func (s *CategoryService) Create(ctx context.Context, actor shared.Actor, req CreateCategoryRequest) (*CategoryResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	taken, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category name %q is already in use", req.Name))
	}

	slug := strings.ToLower(req.Slug)
	taken, err = s.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category slug %q is already in use", slug))
	}

	category, err := catalog.NewCategory(req.Name, req.Slug, req.Icon)
	if err != nil {
		return nil, err
	}
	category.Description = req.Description
	if req.SortOrder != 0 {
		category.SetSortOrder(req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update updates a category's display information
func (s *CategoryService) Update(ctx context.Context, actor shared.Actor, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		taken, err := s.categoryRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category name %q is already in use", req.Name))
		}
	}

	if err := category.Update(req.Name, req.Description, req.Icon); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, category)

	response := ToCategoryResponse(category)
	s.enrichProductCount(ctx, &response)
	return &response, nil
}

// Delete removes an empty category. Categories with assigned products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, actor shared.Actor, categoryID uuid.UUID) error {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Category still has %d products assigned", count))
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	s.enrichProductCount(ctx, &response)
	return &response, nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	s.enrichProductCount(ctx, &response)
	return &response, nil
}

// List retrieves categories with filtering and pagination
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	} else {
		domainFilter.OrderBy = "sort_order"
		domainFilter.OrderDir = "asc"
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := ToCategoryResponses(categories)
	for i := range responses {
		s.enrichProductCount(ctx, &responses[i])
	}
	return responses, total, nil
}

func (s *CategoryService) enrichProductCount(ctx context.Context, response *CategoryResponse) {
	count, err := s.categoryRepo.CountProducts(ctx, response.ID)
	if err == nil {
		response.ProductCount = count
	}
}

func (s *CategoryService) publishEvents(ctx context.Context, category *catalog.Category) {
	events := category.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	category.ClearDomainEvents()
}
