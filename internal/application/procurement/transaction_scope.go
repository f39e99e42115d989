package procurement

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories a goods
// receipt touches: the purchase order and the destination branch ledger.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the procurement and inventory
// repositories within a transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() procurement.PurchaseOrderRepository
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction, for unit tests.
type NoOpTransactionScope struct {
	orderRepo    procurement.PurchaseOrderRepository
	recordRepo   inventory.RecordRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo procurement.PurchaseOrderRepository,
	recordRepo inventory.RecordRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() procurement.PurchaseOrderRepository {
	return s.orderRepo
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
