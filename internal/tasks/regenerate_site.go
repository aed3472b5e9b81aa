package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/site"
)

// SiteBuilder regenerates the static site.
type SiteBuilder interface {
	Build(ctx context.Context) (site.Result, error)
}

// RegenerateSiteTask rebuilds every static page. Reason records what
// triggered the rebuild, e.g. "novel_update".
type RegenerateSiteTask struct {
	Reason string `json:"reason"`
}

func (t RegenerateSiteTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "regenerate_site",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func RegenerateSiteProcessor(builder SiteBuilder, logger *zap.Logger) backlite.QueueProcessor[RegenerateSiteTask] {
	return func(ctx context.Context, task RegenerateSiteTask) error {
		if builder == nil {
			return fmt.Errorf("site builder not configured")
		}

		result, err := builder.Build(ctx)
		if errors.Is(err, site.ErrDisabled) {
			logger.Debug("site regeneration skipped, no output directory", zap.String("reason", task.Reason))
			return nil
		}
		if err != nil {
			return fmt.Errorf("regenerate site: %w", err)
		}

		logger.Info("site regenerated",
			zap.String("reason", task.Reason),
			zap.Int("posts", result.Posts),
			zap.Int("novels", result.Novels),
			zap.Duration("duration", result.Duration),
		)
		return nil
	}
}

func NewRegenerateSiteQueue(builder SiteBuilder, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(RegenerateSiteProcessor(builder, logger))
}
