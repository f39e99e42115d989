package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM.
// The adjustment log is append-only.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Create persists a new adjustment entry
func (r *GormAdjustmentRepository) Create(ctx context.Context, adjustment *inventory.Adjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// FindByID finds an adjustment by its ID
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Adjustment, error) {
	var adjustment inventory.Adjustment
	if err := r.db.WithContext(ctx).First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByBranch finds adjustments in a branch
func (r *GormAdjustmentRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Adjustment{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindAll finds adjustments matching the filter
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Adjustment{}), filter)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Count counts adjustments matching the filter
func (r *GormAdjustmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Adjustment{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBranch counts adjustments in a branch
func (r *GormAdjustmentRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Adjustment{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormAdjustmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, AdjustmentSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAdjustmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("note ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "reason":
			query = query.Where("reason = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ inventory.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
