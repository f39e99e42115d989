package transfer

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the repositories a
// transfer transition touches: the transfer itself and the ledger of the
// branch gaining or losing the stock.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the transfer and inventory
// repositories within a transaction.
type TransactionalRepositories interface {
	// TransferRepo returns the stock transfer repository scoped to the current transaction
	TransferRepo() transfer.StockTransferRepository
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction, for unit tests.
type NoOpTransactionScope struct {
	transferRepo transfer.StockTransferRepository
	recordRepo   inventory.RecordRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	transferRepo transfer.StockTransferRepository,
	recordRepo inventory.RecordRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transferRepo: transferRepo,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function directly against the wrapped repositories.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TransferRepo returns the stock transfer repository.
func (s *NoOpTransactionScope) TransferRepo() transfer.StockTransferRepository {
	return s.transferRepo
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}
