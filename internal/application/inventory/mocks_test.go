package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher collects published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEvents() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, len(m.events))
	copy(result, m.events)
	return result
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
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

// MockAdjustmentRepository is a mock implementation of inventory.AdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Create(ctx context.Context, adjustment *inventory.Adjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Adjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.Adjustment, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Adjustment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdjustmentRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

var _ inventory.RecordRepository = (*MockRecordRepository)(nil)
var _ inventory.MovementRepository = (*MockMovementRepository)(nil)
var _ inventory.AdjustmentRepository = (*MockAdjustmentRepository)(nil)
