package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
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

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindBelowReorder(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, orgID, ids)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockItemRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.ItemFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (bool, error) {
	args := m.Called(ctx, orgID, itemCode)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockItemRepository) SumTotalValue(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTransactionRepository is a mock implementation of inventory.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, orgID, itemID, filter)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.TransactionFilter) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByAllocation(ctx context.Context, allocationID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, allocationID)
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.TransactionFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumQuantityByTypeAndDateRange(ctx context.Context, orgID uuid.UUID, txType inventory.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID, txType, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAllocationRepository is a mock implementation of inventory.AllocationRepository
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, itemID, filter)
	return args.Get(0).([]inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByJob(ctx context.Context, orgID, jobID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, jobID, filter)
	return args.Get(0).([]inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByBid(ctx context.Context, orgID, bidID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, bidID, filter)
	return args.Get(0).([]inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindOpenByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, itemID)
	return args.Get(0).([]inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AllocationFilter) ([]inventory.InventoryAllocation, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryAllocation), args.Error(1)
}

func (m *MockAllocationRepository) Save(ctx context.Context, alloc *inventory.InventoryAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockAllocationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AllocationFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCountRepository is a mock implementation of inventory.CountRepository
type MockCountRepository struct {
	mock.Mock
}

func (m *MockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryCount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryCount), args.Error(1)
}

func (m *MockCountRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryCount, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryCount), args.Error(1)
}

func (m *MockCountRepository) FindByCountNumber(ctx context.Context, orgID uuid.UUID, countNumber string) (*inventory.InventoryCount, error) {
	args := m.Called(ctx, orgID, countNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryCount), args.Error(1)
}

func (m *MockCountRepository) FindByStatus(ctx context.Context, orgID uuid.UUID, status inventory.CountStatus, filter shared.Filter) ([]inventory.InventoryCount, error) {
	args := m.Called(ctx, orgID, status, filter)
	return args.Get(0).([]inventory.InventoryCount), args.Error(1)
}

func (m *MockCountRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.InventoryCount, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryCount), args.Error(1)
}

func (m *MockCountRepository) Save(ctx context.Context, count *inventory.InventoryCount) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockCountRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCountRepository) GenerateCountNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(string), args.Error(1)
}

// MockAlertRepository is a mock implementation of inventory.AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryStockAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryStockAlert), args.Error(1)
}

func (m *MockAlertRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryStockAlert, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryStockAlert), args.Error(1)
}

func (m *MockAlertRepository) FindUnresolvedByItem(ctx context.Context, orgID, itemID uuid.UUID) (*inventory.InventoryStockAlert, error) {
	args := m.Called(ctx, orgID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryStockAlert), args.Error(1)
}

func (m *MockAlertRepository) FindActiveForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AlertFilter) ([]inventory.InventoryStockAlert, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryStockAlert), args.Error(1)
}

func (m *MockAlertRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AlertFilter) ([]inventory.InventoryStockAlert, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]inventory.InventoryStockAlert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *inventory.InventoryStockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) CountActiveForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

// newTestScope wires a NoOpTransactionScope over the given mocks
func newTestScope(
	itemRepo inventory.ItemRepository,
	txRepo inventory.TransactionRepository,
	allocRepo inventory.AllocationRepository,
	countRepo inventory.CountRepository,
	alertRepo inventory.AlertRepository,
) TransactionScope {
	return NewNoOpTransactionScope(itemRepo, txRepo, allocRepo, countRepo, alertRepo)
}
