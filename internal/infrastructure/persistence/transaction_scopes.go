package persistence

import (
	"context"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	appprocurement "github.com/retailcore/backend/internal/application/procurement"
	appsales "github.com/retailcore/backend/internal/application/sales"
	apptransfer "github.com/retailcore/backend/internal/application/transfer"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/procurement"
	"github.com/retailcore/backend/internal/domain/sales"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions. Every repository handed to the callback runs on
// the same *gorm.DB transaction.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) RecordRepo() inventory.RecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

func (r *gormInventoryRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

func (r *gormInventoryRepositories) AdjustmentRepo() inventory.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// GormProcurementTransactionScope implements the procurement TransactionScope
// using GORM transactions. The purchase order repository it hands out carries
// the outbox saver so status transitions queue their events atomically.
type GormProcurementTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormProcurementTransactionScope creates a new GormProcurementTransactionScope
func NewGormProcurementTransactionScope(db *gorm.DB) *GormProcurementTransactionScope {
	return &GormProcurementTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormProcurementTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction
func (s *GormProcurementTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProcurementRepositories{tx: tx, outboxSaver: s.outboxSaver})
	})
}

type gormProcurementRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

func (r *gormProcurementRepositories) OrderRepo() procurement.PurchaseOrderRepository {
	repo := NewGormPurchaseOrderRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

func (r *gormProcurementRepositories) RecordRepo() inventory.RecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

func (r *gormProcurementRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// GormTransferTransactionScope implements the transfer TransactionScope using
// GORM transactions.
type GormTransferTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransferTransactionScope creates a new GormTransferTransactionScope
func NewGormTransferTransactionScope(db *gorm.DB) *GormTransferTransactionScope {
	return &GormTransferTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormTransferTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction
func (s *GormTransferTransactionScope) Execute(ctx context.Context, fn func(repos apptransfer.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransferRepositories{tx: tx, outboxSaver: s.outboxSaver})
	})
}

type gormTransferRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

func (r *gormTransferRepositories) TransferRepo() transfer.StockTransferRepository {
	repo := NewGormStockTransferRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

func (r *gormTransferRepositories) RecordRepo() inventory.RecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

func (r *gormTransferRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// GormSalesTransactionScope implements the sales TransactionScope using GORM
// transactions.
type GormSalesTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver passed to transactional repositories
func (s *GormSalesTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx, outboxSaver: s.outboxSaver})
	})
}

type gormSalesRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

func (r *gormSalesRepositories) SaleRepo() sales.SaleRepository {
	repo := NewGormSaleRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

func (r *gormSalesRepositories) RecordRepo() inventory.RecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

func (r *gormSalesRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appprocurement.TransactionScope = (*GormProcurementTransactionScope)(nil)
var _ apptransfer.TransactionScope = (*GormTransferTransactionScope)(nil)
var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)
