package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/database/audit"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const writeTimeout = 5 * time.Second

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ContentChange describes an admin mutation of a content entity.
type ContentChange struct {
	AdminID    *uuid.UUID
	Action     string // e.g. "novel_create"
	EntityType string // "novel", "chapter", "relation", "blog_post", "app"
	EntitySlug string
	IPAddress  string
	UserAgent  string
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			s.logger.Warn("failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until pending async writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogContent records a content mutation.
func (s *Service) LogContent(change ContentChange, err error) {
	event := &entities.AuditEvent{
		AdminID:     change.AdminID,
		EventType:   entities.AuditEventContent,
		Action:      change.Action,
		Description: change.Action + " " + change.EntitySlug,
		EntityType:  change.EntityType,
		EntitySlug:  change.EntitySlug,
		IPAddress:   change.IPAddress,
		UserAgent:   truncate(change.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event. The username is kept in the
// description; passwords and tokens never reach the audit trail.
func (s *Service) LogAuth(adminID *uuid.UUID, action, username, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		AdminID:     adminID,
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: truncate(action+" as "+username, 500),
		IPAddress:   ipAddr,
		UserAgent:   truncate(userAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogMaintenance records a background job run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events, optionally of one type.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
