package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormStockTransferRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a stock transfer by its ID
func (r *GormStockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.StockTransfer, error) {
	var st transfer.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindByTransferNumber finds a stock transfer by its transfer number
func (r *GormStockTransferRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*transfer.StockTransfer, error) {
	var st transfer.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("transfer_number = ?", transferNumber).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindAll finds all stock transfers
func (r *GormStockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items"), filter)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByBranch finds transfers where the branch is either side
func (r *GormStockTransferRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items").
			Where("from_branch_id = ? OR to_branch_id = ?", branchID, branchID),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByStatus finds stock transfers by status
func (r *GormStockTransferRepository) FindByStatus(ctx context.Context, status transfer.Status, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindInbound finds transfers destined for a branch
func (r *GormStockTransferRepository) FindInbound(ctx context.Context, toBranchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items").
			Where("to_branch_id = ?", toBranchID),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindOutbound finds transfers originating from a branch
func (r *GormStockTransferRepository) FindOutbound(ctx context.Context, fromBranchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	var transfers []transfer.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).Preload("Items").
			Where("from_branch_id = ?", fromBranchID),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a stock transfer together with its items
func (r *GormStockTransferRepository) Save(ctx context.Context, st *transfer.StockTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(st).Error; err != nil {
			return err
		}
		return r.saveItems(tx, st)
	})
}

// CreateWithEvents inserts a brand-new transfer with its items and persists
// domain events to the outbox in the same transaction. Never-persisted
// aggregates must come through here; SaveWithLock is reserved for
// transitions on loaded aggregates.
func (r *GormStockTransferRepository) CreateWithEvents(ctx context.Context, st *transfer.StockTransfer, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(st).Error; err != nil {
			return err
		}
		if err := r.saveItems(tx, st); err != nil {
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

// SaveWithLock saves a stock transfer with optimistic locking
func (r *GormStockTransferRepository) SaveWithLock(ctx context.Context, st *transfer.StockTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, st)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain
// events to the outbox in the same transaction.
func (r *GormStockTransferRepository) SaveWithLockAndEvents(ctx context.Context, st *transfer.StockTransfer, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, st); err != nil {
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

func (r *GormStockTransferRepository) saveWithLockTx(tx *gorm.DB, st *transfer.StockTransfer) error {
	result := tx.Model(&transfer.StockTransfer{}).
		Where("id = ? AND version = ?", st.ID, st.Version-1).
		Updates(map[string]interface{}{
			"status":           st.Status,
			"priority":         st.Priority,
			"notes":            st.Notes,
			"rejection_reason": st.RejectionReason,
			"shipping_notes":   st.ShippingNotes,
			"receiving_notes":  st.ReceivingNotes,
			"approved_by":      st.ApprovedBy,
			"approved_at":      st.ApprovedAt,
			"rejected_by":      st.RejectedBy,
			"rejected_at":      st.RejectedAt,
			"shipped_by":       st.ShippedBy,
			"shipped_at":       st.ShippedAt,
			"received_by":      st.ReceivedBy,
			"received_at":      st.ReceivedAt,
			"cancelled_at":     st.CancelledAt,
			"version":          st.Version,
			"updated_at":       st.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONFLICT", "Stock transfer was modified by another transaction")
	}

	return r.saveItems(tx, st)
}

// saveItems syncs the transfer's item rows
func (r *GormStockTransferRepository) saveItems(tx *gorm.DB, st *transfer.StockTransfer) error {
	currentItemIDs := make([]uuid.UUID, len(st.Items))
	for i, item := range st.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("transfer_id = ? AND id NOT IN ?", st.ID, currentItemIDs).
			Delete(&transfer.TransferItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("transfer_id = ?", st.ID).
			Delete(&transfer.TransferItem{}).Error; err != nil {
			return err
		}
	}

	for i := range st.Items {
		st.Items[i].TransferID = st.ID
		if err := tx.Save(&st.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts stock transfers matching the filter
func (r *GormStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&transfer.StockTransfer{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts stock transfers in a given status
func (r *GormStockTransferRepository) CountByStatus(ctx context.Context, status transfer.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&transfer.StockTransfer{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateTransferNumber generates a unique transfer number.
// Format: TRF-YYYYMMDD-NNNN (e.g. TRF-20260830-0001)
func (r *GormStockTransferRepository) GenerateTransferNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("TRF-%s-", time.Now().Format("20060102"))

	var last transfer.StockTransfer
	err := r.db.WithContext(ctx).
		Model(&transfer.StockTransfer{}).
		Where("transfer_number LIKE ?", prefix+"%").
		Order("transfer_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.TransferNumber != "" {
		var num int64
		if _, parseErr := fmt.Sscanf(last.TransferNumber[len(prefix):], "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// applyFilter applies filter options to a query including pagination
func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, StockTransferSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("transfer_number ILIKE ? OR reason ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "from_branch_id":
			query = query.Where("from_branch_id = ?", value)
		case "to_branch_id":
			query = query.Where("to_branch_id = ?", value)
		case "involves_branch_id":
			query = query.Where("from_branch_id = ? OR to_branch_id = ?", value, value)
		}
	}

	return query
}

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ transfer.StockTransferRepository = (*GormStockTransferRepository)(nil)
