package telemetry

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormBranchStockProvider reads per-branch stock figures from the
// inventory_records table.
type GormBranchStockProvider struct {
	db *gorm.DB
}

// NewGormBranchStockProvider creates a stock provider backed by GORM.
func NewGormBranchStockProvider(db *gorm.DB) *GormBranchStockProvider {
	return &GormBranchStockProvider{db: db}
}

var _ BranchStockProvider = (*GormBranchStockProvider)(nil)

// GetStockUnits sums on-hand quantity across all products in the branch.
func (p *GormBranchStockProvider) GetStockUnits(ctx context.Context, branchID string) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("inventory_records").
		Where("branch_id = ?", branchID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum stock units for branch %s: %w", branchID, err)
	}
	return total, nil
}

// GetLowStockCount counts products at or below their reorder point.
// Records with a zero reorder point never count as low.
func (p *GormBranchStockProvider) GetLowStockCount(ctx context.Context, branchID string) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_records").
		Where("branch_id = ? AND reorder_point > 0 AND quantity <= reorder_point", branchID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock products for branch %s: %w", branchID, err)
	}
	return count, nil
}

// GormBranchProvider lists active branches from the branches table.
type GormBranchProvider struct {
	db *gorm.DB
}

// NewGormBranchProvider creates a branch provider backed by GORM.
func NewGormBranchProvider(db *gorm.DB) *GormBranchProvider {
	return &GormBranchProvider{db: db}
}

var _ BranchProvider = (*GormBranchProvider)(nil)

// GetActiveBranchIDs returns the IDs of all active branches.
func (p *GormBranchProvider) GetActiveBranchIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := p.db.WithContext(ctx).
		Table("branches").
		Where("active = ?", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active branches: %w", err)
	}
	return ids, nil
}
