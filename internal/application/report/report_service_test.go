package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldstock/backend/internal/domain/report"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetDashboardSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DashboardSummary), args.Error(1)
}

func (m *MockReportRepository) GetCategoryStats(ctx context.Context, orgID uuid.UUID) ([]report.CategoryStats, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryStats), args.Error(1)
}

func (m *MockReportRepository) GetLocationStats(ctx context.Context, orgID uuid.UUID) ([]report.LocationStats, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.LocationStats), args.Error(1)
}

func (m *MockReportRepository) GetStatusStats(ctx context.Context, orgID uuid.UUID) ([]report.StatusStats, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusStats), args.Error(1)
}

func (m *MockReportRepository) GetMovementStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]report.MovementStats, error) {
	args := m.Called(ctx, orgID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MovementStats), args.Error(1)
}

func (m *MockReportRepository) GetValuation(ctx context.Context, orgID uuid.UUID) ([]report.ValuationLine, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ValuationLine), args.Error(1)
}

type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) GetSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DashboardSummary), args.Error(1)
}

func (m *MockDashboardCache) SetSummary(ctx context.Context, orgID uuid.UUID, summary *report.DashboardSummary, ttl time.Duration) error {
	args := m.Called(ctx, orgID, summary, ttl)
	return args.Error(0)
}

func (m *MockDashboardCache) Invalidate(ctx context.Context, orgID uuid.UUID) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

func testSummary() *report.DashboardSummary {
	return &report.DashboardSummary{
		TotalItems:       12,
		TotalOnHand:      decimal.NewFromInt(340),
		TotalAllocated:   decimal.NewFromInt(25),
		TotalValue:       decimal.NewFromInt(8120),
		LowStockCount:    3,
		OutOfStockCount:  1,
		ActiveAlertCount: 4,
		OpenAllocations:  2,
		GeneratedAt:      time.Now(),
	}
}

func TestReportService_GetDashboardSummary(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("without cache reads from repository", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		summary := testSummary()
		repo.On("GetDashboardSummary", ctx, orgID).Return(summary, nil).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, summary, result)
		repo.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)

		summary := testSummary()
		cache.On("GetSummary", ctx, orgID).Return(summary, nil).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, summary, result)
		repo.AssertNotCalled(t, "GetDashboardSummary", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss populates cache with configured TTL", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)
		service.SetSummaryTTL(90 * time.Second)

		summary := testSummary()
		cache.On("GetSummary", ctx, orgID).Return(nil, nil).Once()
		repo.On("GetDashboardSummary", ctx, orgID).Return(summary, nil).Once()
		cache.On("SetSummary", ctx, orgID, summary, 90*time.Second).Return(nil).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, summary, result)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache read failure degrades to repository read", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)

		summary := testSummary()
		cache.On("GetSummary", ctx, orgID).Return(nil, errors.New("redis down")).Once()
		repo.On("GetDashboardSummary", ctx, orgID).Return(summary, nil).Once()
		cache.On("SetSummary", ctx, orgID, summary, DefaultSummaryTTL).Return(nil).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, summary, result)
	})

	t.Run("cache write failure does not fail the read", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)

		summary := testSummary()
		cache.On("GetSummary", ctx, orgID).Return(nil, nil).Once()
		repo.On("GetDashboardSummary", ctx, orgID).Return(summary, nil).Once()
		cache.On("SetSummary", ctx, orgID, summary, DefaultSummaryTTL).Return(errors.New("redis down")).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, summary, result)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		repo.On("GetDashboardSummary", ctx, orgID).Return(nil, errors.New("db error")).Once()

		result, err := service.GetDashboardSummary(ctx, orgID)

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestReportService_InvalidateDashboard(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("drops the cached summary", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)

		cache.On("Invalidate", ctx, orgID).Return(nil).Once()

		service.InvalidateDashboard(ctx, orgID)

		cache.AssertExpectations(t)
	})

	t.Run("no-op without a cache", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		service.InvalidateDashboard(ctx, orgID)
	})

	t.Run("swallows cache errors", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := new(MockDashboardCache)
		service := NewReportService(repo, zap.NewNop())
		service.SetCache(cache)

		cache.On("Invalidate", ctx, orgID).Return(errors.New("redis down")).Once()

		service.InvalidateDashboard(ctx, orgID)
	})
}

func TestReportService_Stats(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("category stats pass through", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		stats := []report.CategoryStats{
			{Category: "Pipe", ItemCount: 5, TotalOnHand: decimal.NewFromInt(120), TotalValue: decimal.NewFromInt(2400), LowStockCount: 1},
			{Category: "Fittings", ItemCount: 9, TotalOnHand: decimal.NewFromInt(450), TotalValue: decimal.NewFromInt(900)},
		}
		repo.On("GetCategoryStats", ctx, orgID).Return(stats, nil).Once()

		result, err := service.GetStatsByCategory(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, stats, result)
	})

	t.Run("location stats pass through", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		stats := []report.LocationStats{
			{Location: "Warehouse A", ItemCount: 7, TotalOnHand: decimal.NewFromInt(300), TotalValue: decimal.NewFromInt(5100)},
		}
		repo.On("GetLocationStats", ctx, orgID).Return(stats, nil).Once()

		result, err := service.GetStatsByLocation(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, stats, result)
	})

	t.Run("status stats pass through", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		stats := []report.StatusStats{
			{Status: "in_stock", ItemCount: 10},
			{Status: "low_stock", ItemCount: 3},
			{Status: "out_of_stock", ItemCount: 1},
		}
		repo.On("GetStatusStats", ctx, orgID).Return(stats, nil).Once()

		result, err := service.GetStatsByStatus(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, stats, result)
	})

	t.Run("movement stats forward the date range", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		stats := []report.MovementStats{
			{TransactionType: "receipt", TransactionCount: 14, TotalQuantity: decimal.NewFromInt(800)},
			{TransactionType: "issue", TransactionCount: 22, TotalQuantity: decimal.NewFromInt(640)},
		}
		repo.On("GetMovementStats", ctx, orgID, start, end).Return(stats, nil).Once()

		result, err := service.GetMovementStats(ctx, orgID, start, end)

		require.NoError(t, err)
		assert.Equal(t, stats, result)
		repo.AssertExpectations(t)
	})

	t.Run("valuation passes through", func(t *testing.T) {
		repo := new(MockReportRepository)
		service := NewReportService(repo, zap.NewNop())

		lines := []report.ValuationLine{
			{
				ItemID:         uuid.New(),
				ItemCode:       "PIPE-100",
				ItemName:       "Copper Pipe 15mm",
				Category:       "Pipe",
				Location:       "Warehouse A",
				QuantityOnHand: decimal.NewFromInt(80),
				UnitCost:       decimal.NewFromFloat(4.25),
				TotalValue:     decimal.NewFromInt(340),
			},
		}
		repo.On("GetValuation", ctx, orgID).Return(lines, nil).Once()

		result, err := service.GetValuation(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, lines, result)
	})
}
