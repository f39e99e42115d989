package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Branch, error) {
	var branch partner.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindByCode finds a branch by its code
func (r *GormBranchRepository) FindByCode(ctx context.Context, code string) (*partner.Branch, error) {
	var branch partner.Branch
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindAll finds all branches
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Branch, error) {
	var branches []partner.Branch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Branch{}), filter)

	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// FindActive finds all active branches
func (r *GormBranchRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.Branch, error) {
	var branches []partner.Branch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Branch{}).
			Where("active = ?", true),
		filter,
	)

	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// SaveWithLock saves a branch with optimistic locking (version check)
func (r *GormBranchRepository) SaveWithLock(ctx context.Context, branch *partner.Branch) error {
	result := r.db.WithContext(ctx).
		Model(branch).
		Where("id = ? AND version = ?", branch.ID, branch.Version-1).
		Updates(map[string]interface{}{
			"name":       branch.Name,
			"address":    branch.Address,
			"city":       branch.City,
			"phone":      branch.Phone,
			"email":      branch.Email,
			"zones":      branch.Zones,
			"manager_id": branch.ManagerID,
			"active":     branch.Active,
			"notes":      branch.Notes,
			"sort_order": branch.SortOrder,
			"version":    branch.Version,
			"updated_at": branch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONFLICT", "Branch was modified by another transaction")
	}
	return nil
}

// Count counts branches matching the filter
func (r *GormBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Branch{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a branch code is already taken
func (r *GormBranchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Branch{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByName checks if a branch name is already taken
func (r *GormBranchRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Branch{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormBranchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, BranchSortFields, "sort_order")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("sort_order ASC, code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBranchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}

	return query
}

// Ensure GormBranchRepository implements BranchRepository
var _ partner.BranchRepository = (*GormBranchRepository)(nil)
