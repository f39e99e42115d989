package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRecordRepository implements RecordRepository using GORM
type GormInventoryRecordRepository struct {
	db *gorm.DB
}

// NewGormInventoryRecordRepository creates a new GormInventoryRecordRepository
func NewGormInventoryRecordRepository(db *gorm.DB) *GormInventoryRecordRepository {
	return &GormInventoryRecordRepository{db: db}
}

// FindByID finds an inventory record by its ID
func (r *GormInventoryRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByBranchAndProduct finds the record for a branch-product combination
func (r *GormInventoryRecordRepository) FindByBranchAndProduct(ctx context.Context, branchID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByBranch finds all inventory records in a branch
func (r *GormInventoryRecordRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProduct finds all inventory records for a product across branches
func (r *GormInventoryRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds all inventory records
func (r *GormInventoryRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAtOrBelowReorderPoint finds records whose quantity has reached the
// reorder threshold. A zero branch ID scans every branch.
func (r *GormInventoryRecordRepository) FindAtOrBelowReorderPoint(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
		Where("reorder_point > 0 AND quantity <= reorder_point")
	if branchID != uuid.Nil {
		query = query.Where("branch_id = ?", branchID)
	}

	var records []inventory.InventoryRecord
	if err := r.applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates an inventory record
func (r *GormInventoryRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves an inventory record with optimistic locking.
// The update only succeeds if the stored version matches the version the
// aggregate was loaded at (current version minus one).
func (r *GormInventoryRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity":      record.Quantity,
			"reorder_point": record.ReorderPoint,
			"bin_location":  record.BinLocation,
			"version":       record.Version,
			"updated_at":    record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONFLICT", "Inventory record was modified by another transaction")
	}
	return nil
}

// GetOrCreate gets the existing record or creates a zero-quantity one.
// Creation races are resolved by the unique branch-product index: on
// conflict the insert is skipped and the winner's row is returned.
func (r *GormInventoryRecordRepository) GetOrCreate(ctx context.Context, branchID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	record, err := r.FindByBranchAndProduct(ctx, branchID, productID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewInventoryRecord(branchID, productID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByBranchAndProduct(ctx, branchID, productID)
}

// Count counts inventory records matching the filter
func (r *GormInventoryRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBranch counts inventory records in a branch
func (r *GormInventoryRecordRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByProduct sums total quantity for a product across all branches
func (r *GormInventoryRecordRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormInventoryRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, InventoryRecordSortFields, "updated_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("updated_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("bin_location ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("reorder_point > 0 AND quantity <= reorder_point")
			}
		}
	}

	return query
}

// Ensure GormInventoryRecordRepository implements RecordRepository
var _ inventory.RecordRepository = (*GormInventoryRecordRepository)(nil)
