package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// StockTransferRepository defines the interface for stock transfer persistence
type StockTransferRepository interface {
	// FindByID finds a stock transfer by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)

	// FindByTransferNumber finds a stock transfer by its transfer number
	FindByTransferNumber(ctx context.Context, transferNumber string) (*StockTransfer, error)

	// FindAll finds stock transfers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)

	// FindByBranch finds transfers where the branch is either side
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// FindByStatus finds stock transfers by status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]StockTransfer, error)

	// FindInbound finds transfers destined for a branch
	FindInbound(ctx context.Context, toBranchID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// FindOutbound finds transfers originating from a branch
	FindOutbound(ctx context.Context, fromBranchID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// Save creates or updates a stock transfer
	Save(ctx context.Context, transfer *StockTransfer) error

	// CreateWithEvents inserts a brand-new transfer and persists its domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, transfer *StockTransfer, events []shared.DomainEvent) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, transfer *StockTransfer) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain
	// events to the outbox in the same transaction
	SaveWithLockAndEvents(ctx context.Context, transfer *StockTransfer, events []shared.DomainEvent) error

	// Count counts stock transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts stock transfers in a given status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// GenerateTransferNumber generates a unique transfer number
	GenerateTransferNumber(ctx context.Context) (string, error)
}
