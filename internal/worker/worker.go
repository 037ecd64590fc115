package worker

import (
	"context"
	"time"

	"github.com/userhub/admin-api/pkg/lock"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/metrics"
)

// job is the shared scaffold for periodic workers. Each tick the job takes
// a named distributed lock before running, so in a multi-replica deployment
// only one instance executes a given cycle; the rest skip it and rely on the
// next tick. Lock expiry doubles as the minimum hold time absorbing clock
// skew between replicas.
type job struct {
	name     string
	interval time.Duration
	mutex    lock.Mutex
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func newJob(name string, interval, hold time.Duration, locker lock.Locker, log *logger.Logger, m *metrics.Metrics) job {
	return job{
		name:     name,
		interval: interval,
		mutex:    locker.NewMutex(name, hold),
		logger:   log.WithFields(map[string]interface{}{"job": name}),
		metrics:  m,
	}
}

func (j *job) start(ctx context.Context, run func(context.Context) error) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("starting scheduled job", "interval", j.interval.String())

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("stopping scheduled job")
			return
		case <-ticker.C:
			j.tick(ctx, run)
		}
	}
}

func (j *job) tick(ctx context.Context, run func(context.Context) error) {
	if err := j.mutex.Lock(ctx); err != nil {
		// Another replica holds the lock; this cycle is theirs.
		if j.metrics != nil {
			j.metrics.JobSkips.WithLabelValues(j.name).Inc()
		}
		j.logger.Debug("skipping cycle, lock held elsewhere", "error", err.Error())
		return
	}
	defer func() {
		if _, err := j.mutex.Unlock(ctx); err != nil {
			j.logger.Warn("failed to release job lock", "error", err.Error())
		}
	}()

	start := time.Now()
	err := run(ctx)
	if j.metrics != nil {
		j.metrics.JobDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		if j.metrics != nil {
			j.metrics.JobFailures.WithLabelValues(j.name).Inc()
		}
		// No retry here: the next tick is the retry.
		j.logger.Error(err, "job cycle failed")
		return
	}

	if j.metrics != nil {
		j.metrics.JobRuns.WithLabelValues(j.name).Inc()
	}
}
