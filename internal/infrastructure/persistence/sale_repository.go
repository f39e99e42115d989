package persistence

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/sales"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSaleRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindBySaleNumber finds a sale by its sale number
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_number = ?", saleNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items"), filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByBranch finds sales at a branch
func (r *GormSaleRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items").
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindBySoldBy finds sales made by a user
func (r *GormSaleRepository) FindBySoldBy(ctx context.Context, soldBy uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items").
			Where("sold_by = ?", soldBy),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByDateRange finds sales at a branch within [from, to)
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, branchID uuid.UUID, from, to time.Time, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items").
			Where("branch_id = ? AND sold_at >= ? AND sold_at < ?", branchID, from, to),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates a sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}
		return r.saveItems(tx, sale)
	})
}

// CreateWithEvents inserts a brand-new sale with its items and persists
// domain events to the outbox in the same transaction. Never-persisted
// aggregates must come through here; SaveWithLock is reserved for
// transitions on loaded aggregates.
func (r *GormSaleRepository) CreateWithEvents(ctx context.Context, sale *sales.Sale, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(sale).Error; err != nil {
			return err
		}
		if err := r.saveItems(tx, sale); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
}

// SaveWithLock saves a sale with optimistic locking
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, sale)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain
// events to the outbox in the same transaction.
func (r *GormSaleRepository) SaveWithLockAndEvents(ctx context.Context, sale *sales.Sale, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, sale); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
}

// saveWithLockTx performs the version-checked update. Line items are immutable
// after completion, so only cancellation fields are written.
func (r *GormSaleRepository) saveWithLockTx(tx *gorm.DB, sale *sales.Sale) error {
	result := tx.Model(&sales.Sale{}).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
		Updates(map[string]interface{}{
			"status":              sale.Status,
			"notes":               sale.Notes,
			"cancelled_by":        sale.CancelledBy,
			"cancelled_at":        sale.CancelledAt,
			"cancellation_reason": sale.CancellationReason,
			"version":             sale.Version,
			"updated_at":          sale.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONFLICT", "Sale was modified by another transaction")
	}
	return nil
}

// saveItems syncs the sale's item rows
func (r *GormSaleRepository) saveItems(tx *gorm.DB, sale *sales.Sale) error {
	currentItemIDs := make([]uuid.UUID, len(sale.Items))
	for i, item := range sale.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("sale_id = ? AND id NOT IN ?", sale.ID, currentItemIDs).
			Delete(&sales.SaleItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("sale_id = ?", sale.ID).
			Delete(&sales.SaleItem{}).Error; err != nil {
			return err
		}
	}

	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		if err := tx.Save(&sale.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBranch counts sales at a branch
func (r *GormSaleRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SummarizeDay aggregates a branch's sales for the day containing date.
// Counts cover all sales of the day; gross amount and item counts cover
// completed sales only.
func (r *GormSaleRepository) SummarizeDay(ctx context.Context, branchID uuid.UUID, date time.Time) (*sales.DailySummary, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	summary := &sales.DailySummary{
		BranchID:    branchID,
		Date:        dayStart,
		GrossAmount: decimal.Zero,
	}

	dayScope := func(q *gorm.DB) *gorm.DB {
		return q.Where("branch_id = ? AND sold_at >= ? AND sold_at < ?", branchID, dayStart, dayEnd)
	}

	if err := dayScope(r.db.WithContext(ctx).Model(&sales.Sale{})).
		Where("status = ?", sales.StatusCompleted).
		Count(&summary.SaleCount).Error; err != nil {
		return nil, err
	}

	if err := dayScope(r.db.WithContext(ctx).Model(&sales.Sale{})).
		Where("status = ?", sales.StatusCancelled).
		Count(&summary.CancelledCount).Error; err != nil {
		return nil, err
	}

	var gross decimal.Decimal
	if err := dayScope(r.db.WithContext(ctx).Model(&sales.Sale{})).
		Where("status = ?", sales.StatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&gross).Error; err != nil {
		return nil, err
	}
	summary.GrossAmount = gross

	if err := r.db.WithContext(ctx).
		Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.branch_id = ? AND sales.sold_at >= ? AND sales.sold_at < ?", branchID, dayStart, dayEnd).
		Where("sales.status = ?", sales.StatusCompleted).
		Select("COALESCE(SUM(sale_items.quantity_sold), 0)").
		Scan(&summary.ItemsSold).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// GenerateSaleNumber generates a unique sale number for a branch.
// Format: SALE-<BRANCH>-<yyyyMMddHHmmss>-<4-digit random>
// The second-resolution timestamp plus random suffix avoids a counter scan
// on the hot sale path.
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context, branchCode string) (string, error) {
	return fmt.Sprintf("SALE-%s-%s-%04d",
		strings.ToUpper(branchCode),
		time.Now().Format("20060102150405"),
		rand.Intn(10000),
	), nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, SaleSortFields, "sold_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("sold_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("sale_number ILIKE ? OR till_number ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "sold_by":
			query = query.Where("sold_by = ?", value)
		case "sold_from":
			query = query.Where("sold_at >= ?", value)
		case "sold_to":
			query = query.Where("sold_at <= ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
