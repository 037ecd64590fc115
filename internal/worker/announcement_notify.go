package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/userhub/admin-api/internal/notifier"
	"github.com/userhub/admin-api/internal/repository"
	"github.com/userhub/admin-api/pkg/clock"
	"github.com/userhub/admin-api/pkg/lock"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/metrics"
)

const notifyJobName = "announcement-notify"

// AnnouncementNotifyWorker publishes the activation message for the current
// announcement exactly once. The notified flag is the de-duplication marker;
// the job lock prevents two replicas racing between the flag check and the
// flag write.
type AnnouncementNotifyWorker struct {
	job
	repo     repository.AnnouncementRepository
	notifier notifier.Notifier
	clock    clock.Clock
}

func NewAnnouncementNotifyWorker(
	repo repository.AnnouncementRepository,
	n notifier.Notifier,
	clk clock.Clock,
	locker lock.Locker,
	interval, hold time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *AnnouncementNotifyWorker {
	return &AnnouncementNotifyWorker{
		job:      newJob(notifyJobName, interval, hold, locker, log, m),
		repo:     repo,
		notifier: n,
		clock:    clk,
	}
}

func (w *AnnouncementNotifyWorker) Start(ctx context.Context) {
	w.start(ctx, w.Run)
}

// Run executes one notify cycle. Exported so a single cycle can be driven
// directly in tests and one-shot tooling.
func (w *AnnouncementNotifyWorker) Run(ctx context.Context) error {
	now := w.clock.Now()

	current, err := w.repo.FindCurrent(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to find current announcement: %w", err)
	}
	if current == nil || current.Notified {
		return nil
	}

	// Publish before flipping the flag: if the flag write fails the next
	// cycle may publish again, which downstream consumers tolerate better
	// than a silently swallowed activation.
	w.notifier.PublishActivation(ctx, current)

	if err := w.repo.MarkNotified(ctx, current.ID); err != nil {
		return fmt.Errorf("failed to mark announcement notified: %w", err)
	}

	w.logger.Info("announcement activated",
		"announcement_id", current.ID.String(),
		"severity", string(current.Severity))
	return nil
}
