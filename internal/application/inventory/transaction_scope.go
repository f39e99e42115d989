package inventory

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() inventory.AdjustmentRepository
}

// LedgerWriter is the subset of transactional repositories needed to post a
// ledger change together with its movement row. The procurement, transfer and
// sales transaction scopes all satisfy it, so the posting helpers below can be
// shared across contexts.
type LedgerWriter interface {
	RecordRepo() inventory.RecordRepository
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. It is used in unit tests where the repositories are mocks.
type NoOpTransactionScope struct {
	recordRepo     inventory.RecordRepository
	movementRepo   inventory.MovementRepository
	adjustmentRepo inventory.AdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	recordRepo inventory.RecordRepository,
	movementRepo inventory.MovementRepository,
	adjustmentRepo inventory.AdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recordRepo:     recordRepo,
		movementRepo:   movementRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// AdjustmentRepo returns the adjustment repository.
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository {
	return s.adjustmentRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
