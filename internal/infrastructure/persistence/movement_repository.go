package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; the repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create persists a new movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByRecord finds movements for an inventory record
func (r *GormMovementRepository) FindByRecord(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Movement{}).
			Where("record_id = ?", recordID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByBranch finds movements in a branch
func (r *GormMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Movement{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference finds movements by source document number
func (r *GormMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Movement{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, MovementSortFields, "occurred_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("occurred_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR note ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "reference":
			query = query.Where("reference = ?", value)
		case "start_date":
			query = query.Where("occurred_at >= ?", value)
		case "end_date":
			query = query.Where("occurred_at <= ?", value)
		}
	}

	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
