package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/transfer"
	"github.com/stretchr/testify/mock"
)

// MockStockTransferRepository is a mock implementation of transfer.StockTransferRepository
type MockStockTransferRepository struct {
	mock.Mock
}

func (m *MockStockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.StockTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*transfer.StockTransfer, error) {
	args := m.Called(ctx, transferNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.StockTransfer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindByStatus(ctx context.Context, status transfer.Status, filter shared.Filter) ([]transfer.StockTransfer, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindInbound(ctx context.Context, toBranchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	args := m.Called(ctx, toBranchID, filter)
	return args.Get(0).([]transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) FindOutbound(ctx context.Context, fromBranchID uuid.UUID, filter shared.Filter) ([]transfer.StockTransfer, error) {
	args := m.Called(ctx, fromBranchID, filter)
	return args.Get(0).([]transfer.StockTransfer), args.Error(1)
}

func (m *MockStockTransferRepository) Save(ctx context.Context, stockTransfer *transfer.StockTransfer) error {
	args := m.Called(ctx, stockTransfer)
	return args.Error(0)
}

func (m *MockStockTransferRepository) CreateWithEvents(ctx context.Context, stockTransfer *transfer.StockTransfer, events []shared.DomainEvent) error {
	args := m.Called(ctx, stockTransfer, events)
	return args.Error(0)
}

func (m *MockStockTransferRepository) SaveWithLock(ctx context.Context, stockTransfer *transfer.StockTransfer) error {
	args := m.Called(ctx, stockTransfer)
	return args.Error(0)
}

func (m *MockStockTransferRepository) SaveWithLockAndEvents(ctx context.Context, stockTransfer *transfer.StockTransfer, events []shared.DomainEvent) error {
	args := m.Called(ctx, stockTransfer, events)
	return args.Error(0)
}

func (m *MockStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockTransferRepository) CountByStatus(ctx context.Context, status transfer.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockTransferRepository) GenerateTransferNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	args := m.Called(ctx, barcode)
	return args.Bool(0), args.Error(1)
}

// MockBranchRepository is a mock implementation of partner.BranchRepository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByCode(ctx context.Context, code string) (*partner.Branch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Branch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.Branch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) SaveWithLock(ctx context.Context, branch *partner.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockRecordRepository is a mock implementation of inventory.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByBranchAndProduct(ctx context.Context, branchID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, branchID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindAtOrBelowReorderPoint(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) GetOrCreate(ctx context.Context, branchID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, branchID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByRecord(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	args := m.Called(ctx, recordID, filter)
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.Movement, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ transfer.StockTransferRepository = (*MockStockTransferRepository)(nil)
var _ catalog.ProductRepository = (*MockProductRepository)(nil)
var _ partner.BranchRepository = (*MockBranchRepository)(nil)
var _ inventory.RecordRepository = (*MockRecordRepository)(nil)
var _ inventory.MovementRepository = (*MockMovementRepository)(nil)
