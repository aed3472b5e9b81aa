package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/site"
)

type SiteBuilder interface {
	Enabled() bool
	Build(ctx context.Context) (site.Result, error)
}

type MaintenanceLogger interface {
	LogMaintenance(action, description string, err error)
}

type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) error
}

type SiteSyncConfig struct {
	Enabled            bool
	Schedule           string
	AuditRetentionDays int
}

// SiteSyncScheduler periodically rebuilds the static site and queues audit
// log cleanup.
type SiteSyncScheduler struct {
	cfg     SiteSyncConfig
	builder SiteBuilder
	audit   MaintenanceLogger
	cleanup AuditCleanupEnqueuer
	logger  *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSiteSyncScheduler creates a scheduler. audit and cleanup may be nil.
func NewSiteSyncScheduler(cfg SiteSyncConfig, builder SiteBuilder, audit MaintenanceLogger, cleanup AuditCleanupEnqueuer, logger *zap.Logger) *SiteSyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteSyncScheduler{
		cfg:     cfg,
		builder: builder,
		audit:   audit,
		cleanup: cleanup,
		logger:  logger.Named("scheduler"),
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if sync is enabled.
func (s *SiteSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		s.logger.Info("site sync scheduler disabled")
		return nil
	}

	if !s.builder.Enabled() {
		s.logger.Info("site sync scheduler skipped, output directory not configured")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule site sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.cfg.Schedule, time.Now())
	s.logger.Info("site sync scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("description", DescribeSchedule(s.cfg.Schedule)),
		zap.Time("next_run", nextRun),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish, then stops the scheduler.
func (s *SiteSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.logger.Info("site sync scheduler stopped")
}

// RunNow triggers an immediate sync in the background.
func (s *SiteSyncScheduler) RunNow() {
	go s.runSync(context.Background())
}

func (s *SiteSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sync will occur, or nil when stopped.
func (s *SiteSyncScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *SiteSyncScheduler) runSync(ctx context.Context) {
	result, err := s.builder.Build(ctx)
	if err != nil {
		s.logger.Error("scheduled site sync failed", zap.Error(err))
		s.logMaintenance("site_sync", "Scheduled site generation failed", err)
	} else {
		s.logMaintenance("site_sync", fmt.Sprintf("Generated %d posts, %d novels, %d chapters in %v",
			result.Posts, result.Novels, result.Chapters, result.Duration.Round(time.Millisecond)), nil)
	}

	if s.cleanup != nil {
		if err := s.cleanup.EnqueueAuditCleanup(ctx, s.cfg.AuditRetentionDays); err != nil {
			s.logger.Error("failed to enqueue audit cleanup", zap.Error(err))
		}
	}
}

func (s *SiteSyncScheduler) logMaintenance(action, description string, err error) {
	if s.audit == nil {
		return
	}
	s.audit.LogMaintenance(action, description, err)
}
