package scheduler

import (
	"context"
	"sync"
	"time"

	appinv "github.com/fieldstock/backend/internal/application/inventory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertChecker runs a reorder-level scan for one organization
type AlertChecker interface {
	CheckAlerts(ctx context.Context, orgID uuid.UUID) (*appinv.CheckAlertsResult, error)
}

// OrgSource lists the organizations that currently hold inventory
type OrgSource interface {
	ListOrgIDs(ctx context.Context) ([]uuid.UUID, error)
}

// AlertSweepSchedulerConfig holds configuration for the alert sweep scheduler
type AlertSweepSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the sweep runs
	Interval time.Duration

	// SweepTimeout is the maximum time for a single sweep across all orgs
	SweepTimeout time.Duration
}

// DefaultAlertSweepSchedulerConfig returns default configuration
func DefaultAlertSweepSchedulerConfig() AlertSweepSchedulerConfig {
	return AlertSweepSchedulerConfig{
		Enabled:      true,
		Interval:     15 * time.Minute,
		SweepTimeout: 5 * time.Minute,
	}
}

// AlertSweepScheduler periodically scans every organization's inventory for
// items at or below their reorder level and raises or refreshes stock alerts.
// The sweep is the safety net behind the event-driven alert path: it catches
// items that crossed the threshold while the process was down.
type AlertSweepScheduler struct {
	checker   AlertChecker
	orgs      OrgSource
	logger    *zap.Logger
	config    AlertSweepSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewAlertSweepScheduler creates a new alert sweep scheduler
func NewAlertSweepScheduler(
	checker AlertChecker,
	orgs OrgSource,
	logger *zap.Logger,
	config AlertSweepSchedulerConfig,
) *AlertSweepScheduler {
	return &AlertSweepScheduler{
		checker: checker,
		orgs:    orgs,
		logger:  logger,
		config:  config,
	}
}

// Start starts the alert sweep scheduler
func (s *AlertSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("alert sweep scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("alert sweep scheduler started",
		zap.Duration("interval", s.config.Interval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *AlertSweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("alert sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("alert sweep scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *AlertSweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs CheckAlerts for every organization. A failure in one org is
// logged and does not abort the remaining orgs.
func (s *AlertSweepScheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	orgIDs, err := s.orgs.ListOrgIDs(sweepCtx)
	if err != nil {
		s.logger.Error("alert sweep failed to list organizations", zap.Error(err))
		return
	}

	start := time.Now()
	var created, refreshed int

	for _, orgID := range orgIDs {
		if sweepCtx.Err() != nil {
			s.logger.Warn("alert sweep aborted", zap.Error(sweepCtx.Err()))
			return
		}

		result, err := s.checker.CheckAlerts(sweepCtx, orgID)
		if err != nil {
			s.logger.Error("alert sweep failed for organization",
				zap.String("org_id", orgID.String()),
				zap.Error(err),
			)
			continue
		}
		created += result.AlertsCreated
		refreshed += result.AlertsRefreshed
	}

	s.logger.Info("alert sweep completed",
		zap.Int("orgs", len(orgIDs)),
		zap.Int("alerts_created", created),
		zap.Int("alerts_refreshed", refreshed),
		zap.Duration("elapsed", time.Since(start)),
	)
}
