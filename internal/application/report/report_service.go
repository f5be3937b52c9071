package report

import (
	"context"
	"time"

	"github.com/fieldstock/backend/internal/domain/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSummaryTTL is how long a cached dashboard summary stays fresh
const DefaultSummaryTTL = 5 * time.Minute

// DashboardCache caches dashboard summaries per organization. A nil cache is
// valid; the service then always reads from the database.
type DashboardCache interface {
	// GetSummary returns the cached summary or (nil, nil) on a miss
	GetSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error)
	// SetSummary stores a summary with a TTL
	SetSummary(ctx context.Context, orgID uuid.UUID, summary *report.DashboardSummary, ttl time.Duration) error
	// Invalidate drops the cached summary for an organization
	Invalidate(ctx context.Context, orgID uuid.UUID) error
}

// ReportService serves read-only aggregations over the stock ledger and
// alert table. It never mutates state; correctness here means correct
// aggregation, nothing more.
type ReportService struct {
	reportRepo report.InventoryReportRepository
	cache      DashboardCache
	logger     *zap.Logger
	summaryTTL time.Duration
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.InventoryReportRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger,
		summaryTTL: DefaultSummaryTTL,
	}
}

// SetCache enables dashboard summary caching
func (s *ReportService) SetCache(cache DashboardCache) {
	s.cache = cache
}

// SetSummaryTTL overrides the cache TTL for dashboard summaries
func (s *ReportService) SetSummaryTTL(ttl time.Duration) {
	if ttl > 0 {
		s.summaryTTL = ttl
	}
}

// GetDashboardSummary returns the headline stock numbers, from cache when
// fresh. Cache failures degrade to a database read, never to an error.
func (s *ReportService) GetDashboardSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, orgID)
		if err != nil {
			s.logger.Warn("dashboard cache read failed",
				zap.String("org_id", orgID.String()),
				zap.Error(err),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.reportRepo.GetDashboardSummary(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, orgID, summary, s.summaryTTL); err != nil {
			s.logger.Warn("dashboard cache write failed",
				zap.String("org_id", orgID.String()),
				zap.Error(err),
			)
		}
	}
	return summary, nil
}

// InvalidateDashboard drops the cached summary after bulk stock changes
func (s *ReportService) InvalidateDashboard(ctx context.Context, orgID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, orgID); err != nil {
		s.logger.Warn("dashboard cache invalidation failed",
			zap.String("org_id", orgID.String()),
			zap.Error(err),
		)
	}
}

// GetStatsByCategory aggregates stock grouped by category
func (s *ReportService) GetStatsByCategory(ctx context.Context, orgID uuid.UUID) ([]report.CategoryStats, error) {
	return s.reportRepo.GetCategoryStats(ctx, orgID)
}

// GetStatsByLocation aggregates stock grouped by location
func (s *ReportService) GetStatsByLocation(ctx context.Context, orgID uuid.UUID) ([]report.LocationStats, error) {
	return s.reportRepo.GetLocationStats(ctx, orgID)
}

// GetStatsByStatus counts items grouped by stock status
func (s *ReportService) GetStatsByStatus(ctx context.Context, orgID uuid.UUID) ([]report.StatusStats, error) {
	return s.reportRepo.GetStatusStats(ctx, orgID)
}

// GetMovementStats aggregates transaction volume by type over a date range
func (s *ReportService) GetMovementStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]report.MovementStats, error) {
	return s.reportRepo.GetMovementStats(ctx, orgID, start, end)
}

// GetValuation lists every in-stock item with its extended value
func (s *ReportService) GetValuation(ctx context.Context, orgID uuid.UUID) ([]report.ValuationLine, error) {
	return s.reportRepo.GetValuation(ctx, orgID)
}
