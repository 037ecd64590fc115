package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/userhub/admin-api/internal/config"
	"github.com/userhub/admin-api/internal/notifier"
	"github.com/userhub/admin-api/internal/repository/postgres"
	"github.com/userhub/admin-api/internal/worker"
	"github.com/userhub/admin-api/pkg/clock"
	"github.com/userhub/admin-api/pkg/lock"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/messaging/redis"
	"github.com/userhub/admin-api/pkg/metrics"
)

// The worker binary runs the periodic jobs separately from the API so they
// can be scaled and restarted independently. Multiple worker replicas are
// safe: each job cycle runs under a redis-backed distributed lock.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("admin_worker")
	clk := clock.New()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.ZL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	locker := lock.NewRedisLocker(broker.Client())

	base := postgres.NewBaseRepository(db)
	announcementRepo := postgres.NewAnnouncementRepository(base)
	connRepo := postgres.NewConnectionRepository(base)

	announcementNotifier := notifier.New(broker, cfg.Notification.Channel, appLogger, m)

	notifyWorker := worker.NewAnnouncementNotifyWorker(
		announcementRepo, announcementNotifier, clk, locker,
		cfg.Scheduler.NotifyInterval, cfg.Scheduler.NotifyLockHold,
		appLogger, m,
	)
	cleanupWorker := worker.NewAnnouncementCleanupWorker(
		announcementRepo, clk, locker,
		cfg.Scheduler.CleanupInterval, cfg.Scheduler.CleanupLockHold,
		appLogger, m,
	)
	reaperWorker := worker.NewConnectionReaperWorker(
		connRepo, clk, locker,
		cfg.Scheduler.ReaperInterval, cfg.Scheduler.ReaperLockHold,
		appLogger, m,
	)

	setupHealthCheck(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down workers")
		cancel()
	}()

	var wg sync.WaitGroup
	for _, start := range []func(context.Context){
		notifyWorker.Start,
		cleanupWorker.Start,
		reaperWorker.Start,
	} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(start)
	}
	wg.Wait()
}

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
