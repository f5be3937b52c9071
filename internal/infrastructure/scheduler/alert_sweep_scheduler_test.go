package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appinv "github.com/fieldstock/backend/internal/application/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	mu     sync.Mutex
	calls  []uuid.UUID
	err    error
	result appinv.CheckAlertsResult
}

func (c *stubChecker) CheckAlerts(ctx context.Context, orgID uuid.UUID) (*appinv.CheckAlertsResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, orgID)
	if c.err != nil {
		return nil, c.err
	}
	result := c.result
	return &result, nil
}

func (c *stubChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type stubOrgSource struct {
	orgIDs []uuid.UUID
	err    error
}

func (s *stubOrgSource) ListOrgIDs(ctx context.Context) ([]uuid.UUID, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orgIDs, nil
}

func TestAlertSweepSchedulerSweep(t *testing.T) {
	t.Run("checks every organization", func(t *testing.T) {
		checker := &stubChecker{result: appinv.CheckAlertsResult{AlertsCreated: 1}}
		orgs := &stubOrgSource{orgIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), DefaultAlertSweepSchedulerConfig())
		s.sweep(context.Background())

		assert.Equal(t, 3, checker.callCount())
	})

	t.Run("continues after a failing organization", func(t *testing.T) {
		checker := &stubChecker{err: errors.New("db down")}
		orgs := &stubOrgSource{orgIDs: []uuid.UUID{uuid.New(), uuid.New()}}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), DefaultAlertSweepSchedulerConfig())
		s.sweep(context.Background())

		assert.Equal(t, 2, checker.callCount())
	})

	t.Run("aborts when org listing fails", func(t *testing.T) {
		checker := &stubChecker{}
		orgs := &stubOrgSource{err: errors.New("db down")}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), DefaultAlertSweepSchedulerConfig())
		s.sweep(context.Background())

		assert.Equal(t, 0, checker.callCount())
	})
}

func TestAlertSweepSchedulerLifecycle(t *testing.T) {
	t.Run("disabled scheduler never runs", func(t *testing.T) {
		checker := &stubChecker{}
		orgs := &stubOrgSource{orgIDs: []uuid.UUID{uuid.New()}}
		cfg := AlertSweepSchedulerConfig{Enabled: false, Interval: time.Millisecond, SweepTimeout: time.Second}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), cfg)
		require.NoError(t, s.Start(context.Background()))

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, s.Stop(context.Background()))
		assert.Equal(t, 0, checker.callCount())
	})

	t.Run("runs sweeps until stopped", func(t *testing.T) {
		checker := &stubChecker{}
		orgs := &stubOrgSource{orgIDs: []uuid.UUID{uuid.New()}}
		cfg := AlertSweepSchedulerConfig{Enabled: true, Interval: 5 * time.Millisecond, SweepTimeout: time.Second}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), cfg)
		require.NoError(t, s.Start(context.Background()))

		assert.Eventually(t, func() bool {
			return checker.callCount() >= 2
		}, time.Second, time.Millisecond)

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		checker := &stubChecker{}
		orgs := &stubOrgSource{}
		cfg := AlertSweepSchedulerConfig{Enabled: true, Interval: time.Hour, SweepTimeout: time.Second}

		s := NewAlertSweepScheduler(checker, orgs, zap.NewNop(), cfg)
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Start(context.Background()))

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(stopCtx))
		require.NoError(t, s.Stop(stopCtx))
	})
}
