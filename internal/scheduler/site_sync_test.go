package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/site"
)

type stubBuilder struct {
	enabled bool
	err     error

	mu    sync.Mutex
	calls int
}

func (b *stubBuilder) Enabled() bool { return b.enabled }

func (b *stubBuilder) Build(context.Context) (site.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return site.Result{Posts: 2}, b.err
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
	errs    []error
}

func (a *recordingAudit) LogMaintenance(action, _ string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.errs = append(a.errs, err)
}

type recordingCleanup struct {
	days []int
}

func (c *recordingCleanup) EnqueueAuditCleanup(_ context.Context, retentionDays int) error {
	c.days = append(c.days, retentionDays)
	return nil
}

func TestSiteSyncScheduler_StartConditions(t *testing.T) {
	tests := []struct {
		name        string
		cfg         SiteSyncConfig
		enabled     bool
		wantRunning bool
		wantErr     bool
	}{
		{"disabled by config", SiteSyncConfig{Enabled: false, Schedule: "0 * * * *"}, true, false, false},
		{"no output directory", SiteSyncConfig{Enabled: true, Schedule: "0 * * * *"}, false, false, false},
		{"invalid schedule", SiteSyncConfig{Enabled: true, Schedule: "every hour"}, true, false, true},
		{"running", SiteSyncConfig{Enabled: true, Schedule: "0 * * * *"}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSiteSyncScheduler(tt.cfg, &stubBuilder{enabled: tt.enabled}, nil, nil, zap.NewNop())
			err := s.Start(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRunning, s.IsRunning())
			if tt.wantRunning {
				require.NotNil(t, s.NextRun())
				s.Stop()
				assert.False(t, s.IsRunning())
				assert.Nil(t, s.NextRun())
			}
		})
	}
}

func TestSiteSyncScheduler_StopsWithContext(t *testing.T) {
	s := NewSiteSyncScheduler(SiteSyncConfig{Enabled: true, Schedule: "*/15 * * * *"}, &stubBuilder{enabled: true}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestSiteSyncScheduler_RunSync(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		builder := &stubBuilder{enabled: true}
		audit := &recordingAudit{}
		cleanup := &recordingCleanup{}
		s := NewSiteSyncScheduler(SiteSyncConfig{AuditRetentionDays: 30}, builder, audit, cleanup, zap.NewNop())

		s.runSync(context.Background())

		assert.Equal(t, 1, builder.calls)
		assert.Equal(t, []string{"site_sync"}, audit.actions)
		assert.Nil(t, audit.errs[0])
		assert.Equal(t, []int{30}, cleanup.days)
	})

	t.Run("failure is audited", func(t *testing.T) {
		audit := &recordingAudit{}
		s := NewSiteSyncScheduler(SiteSyncConfig{}, &stubBuilder{enabled: true, err: errors.New("boom")}, audit, nil, zap.NewNop())

		s.runSync(context.Background())

		require.Len(t, audit.errs, 1)
		assert.EqualError(t, audit.errs[0], "boom")
	})
}

func TestCronHelpers(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.Error(t, ValidateCronSchedule("* * *"))
	assert.Equal(t, "Every hour at :00", DescribeSchedule("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", DescribeSchedule("5 4 * * *"))

	from := time.Date(2025, 6, 1, 10, 20, 0, 0, time.Local)
	next, err := NextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 11, 0, 0, 0, time.Local), next)
}
