package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DailySummary aggregates a branch's sales for one day
type DailySummary struct {
	BranchID       uuid.UUID       `json:"branch_id"`
	Date           time.Time       `json:"date"`
	SaleCount      int64           `json:"sale_count"`
	CancelledCount int64           `json:"cancelled_count"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	ItemsSold      int64           `json:"items_sold"`
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindBySaleNumber finds a sale by its sale number
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll finds sales with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByBranch finds sales at a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindBySoldBy finds sales made by a user
	FindBySoldBy(ctx context.Context, soldBy uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindByDateRange finds sales at a branch in a time window
	FindByDateRange(ctx context.Context, branchID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Sale, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// CreateWithEvents inserts a brand-new sale and persists its domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, sale *Sale, events []shared.DomainEvent) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain
	// events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, sale *Sale, events []shared.DomainEvent) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByBranch counts sales at a branch
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)

	// SummarizeDay aggregates a branch's sales for the day containing date
	SummarizeDay(ctx context.Context, branchID uuid.UUID, date time.Time) (*DailySummary, error)

	// GenerateSaleNumber generates a unique sale number for a branch
	GenerateSaleNumber(ctx context.Context, branchCode string) (string, error)
}
