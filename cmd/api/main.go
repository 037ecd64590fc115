package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/config"
	announcementHandler "github.com/userhub/admin-api/internal/handler/announcement"
	groupHandler "github.com/userhub/admin-api/internal/handler/group"
	healthHandler "github.com/userhub/admin-api/internal/handler/health"
	profileHandler "github.com/userhub/admin-api/internal/handler/profile"
	userHandler "github.com/userhub/admin-api/internal/handler/user"
	"github.com/userhub/admin-api/internal/notifier"
	"github.com/userhub/admin-api/internal/repository/postgres"
	"github.com/userhub/admin-api/internal/router"
	announcementService "github.com/userhub/admin-api/internal/service/announcement"
	groupService "github.com/userhub/admin-api/internal/service/group"
	"github.com/userhub/admin-api/internal/service/identity"
	profileService "github.com/userhub/admin-api/internal/service/profile"
	userService "github.com/userhub/admin-api/internal/service/user"
	"github.com/userhub/admin-api/pkg/clock"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/messaging/redis"
	"github.com/userhub/admin-api/pkg/metrics"
	"github.com/userhub/admin-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("admin_api")
	clk := clock.New()
	validate := validator.New()
	admins := access.NewAdminSet(cfg.Access.AdminUsers)

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

	base := postgres.NewBaseRepository(db)
	announcementRepo := postgres.NewAnnouncementRepository(base)
	userRepo := postgres.NewUserRepository(base)
	groupRepo := postgres.NewGroupRepository(base)
	profileRepo := postgres.NewProfileRepository(base)
	connRepo := postgres.NewConnectionRepository(base)

	announcementNotifier := notifier.New(broker, cfg.Notification.Channel, appLogger, m)
	identityClient := identity.NewHTTPClient(identity.Config{
		BaseURL:  cfg.Identity.BaseURL,
		Timeout:  cfg.Identity.Timeout,
		CacheTTL: cfg.Identity.CacheTTL,
	}, appLogger)

	announcementSvc := announcementService.NewService(announcementRepo, announcementNotifier, admins, clk)
	userSvc := userService.NewService(userRepo, profileRepo, connRepo, identityClient, admins, clk, appLogger)
	groupSvc := groupService.NewService(groupRepo, admins)
	profileSvc := profileService.NewService(profileRepo, admins)

	r := router.New(
		cfg.Server,
		m,
		healthHandler.NewHandler(db),
		[]router.Handler{
			announcementHandler.NewHandler(announcementSvc),
		},
		[]router.Handler{
			userHandler.NewHandler(userSvc, validate),
			groupHandler.NewHandler(groupSvc, validate),
			profileHandler.NewHandler(profileSvc, validate),
		},
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited")
}
