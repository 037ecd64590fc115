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

const reaperJobName = "connection-reaper"

// ConnectionReaperWorker removes sessions idle past their profile's timeout.
type ConnectionReaperWorker struct {
	job
	repo  repository.ConnectionRepository
	clock clock.Clock
}

func NewConnectionReaperWorker(
	repo repository.ConnectionRepository,
	clk clock.Clock,
	locker lock.Locker,
	interval, hold time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *ConnectionReaperWorker {
	return &ConnectionReaperWorker{
		job:   newJob(reaperJobName, interval, hold, locker, log, m),
		repo:  repo,
		clock: clk,
	}
}

func (w *ConnectionReaperWorker) Start(ctx context.Context) {
	w.start(ctx, w.Run)
}

func (w *ConnectionReaperWorker) Run(ctx context.Context) error {
	reaped, err := w.repo.DeleteIdle(ctx, w.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to reap idle connections: %w", err)
	}

	if reaped > 0 {
		w.logger.Info("reaped idle connections", "count", reaped)
	}
	return nil
}
