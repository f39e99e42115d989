package sales

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a
// checkout or cancellation touches: the sale and the branch ledger.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the sales and inventory
// repositories within a transaction.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction, for unit tests.
type NoOpTransactionScope struct {
	saleRepo     sales.SaleRepository
	recordRepo   inventory.RecordRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	recordRepo inventory.RecordRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:     saleRepo,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function directly against the wrapped repositories.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}
