package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/userhub/admin-api/internal/repository"
	"github.com/userhub/admin-api/pkg/clock"
	"github.com/userhub/admin-api/pkg/lock"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/metrics"
)

const cleanupJobName = "announcement-cleanup"

// AnnouncementCleanupWorker bulk-deletes announcements whose window has
// fully passed. Expiry is silent: no cancellation message is published for
// announcements that simply ran out.
type AnnouncementCleanupWorker struct {
	job
	repo  repository.AnnouncementRepository
	clock clock.Clock
}

func NewAnnouncementCleanupWorker(
	repo repository.AnnouncementRepository,
	clk clock.Clock,
	locker lock.Locker,
	interval, hold time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *AnnouncementCleanupWorker {
	return &AnnouncementCleanupWorker{
		job:   newJob(cleanupJobName, interval, hold, locker, log, m),
		repo:  repo,
		clock: clk,
	}
}

func (w *AnnouncementCleanupWorker) Start(ctx context.Context) {
	w.start(ctx, w.Run)
}

// Run executes one cleanup sweep. Running it again immediately is a no-op.
func (w *AnnouncementCleanupWorker) Run(ctx context.Context) error {
	deleted, err := w.repo.DeleteExpired(ctx, w.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired announcements: %w", err)
	}

	if deleted > 0 {
		w.logger.Info("removed expired announcements", "count", deleted)
	}
	return nil
}
