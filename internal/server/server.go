// Package server owns process lifecycle: boot order, the HTTP listener
// with graceful shutdown, background workers, the scheduler, and the
// optional gRPC health endpoint.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/influex/app/jobs"
	"github.com/shashiranjanraj/influex/app/listeners"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/internal/kernel"
	"github.com/shashiranjanraj/influex/pkg/cache"
	"github.com/shashiranjanraj/influex/pkg/database"
	grpcserver "github.com/shashiranjanraj/influex/pkg/grpc"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/notification"
	"github.com/shashiranjanraj/influex/pkg/queue"
	"github.com/shashiranjanraj/influex/pkg/schedule"
	"github.com/shashiranjanraj/influex/pkg/storage"
)

// Boot brings up everything a process needs before serving or working:
// config, log sinks, database, cache, storage disks, the queue driver and
// the job and event registries. Queue jobs fall back to the in-memory
// driver when Redis is not configured.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}
	logger.Boot()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("server: cache unavailable, falling back to direct reads", "error", err)
	}
	storage.Connect()
	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	} else {
		queue.SetDriver(queue.NewMemoryDriver())
	}

	jobs.RegisterAll()
	listeners.RegisterAll()
	return nil
}

// RegisterSchedules declares the recurring maintenance tasks. Called by
// the serve path and by the standalone schedule:run command.
func RegisterSchedules() {
	otps := repositories.NewOTPRepository()
	schedule.Every(10).Minutes().Name("otp:purge-expired").WithoutOverlapping().Run(func() {
		if err := otps.DeleteExpired(); err != nil {
			logger.Error("schedule: otp purge", "error", err)
		}
	})

	oauth := services.NewOAuthService()
	schedule.Hourly().Name("oauth:purge-sessions").WithoutOverlapping().Run(func() {
		if err := oauth.CleanupExpiredSessions(); err != nil {
			logger.Error("schedule: oauth session purge", "error", err)
		}
	})

	promos := repositories.NewPromotionRepository()
	schedule.Daily().Name("promotions:deactivate-stale").WithoutOverlapping().Run(func() {
		n, err := promos.DeactivateStale(time.Now().AddDate(0, 0, -90))
		if err != nil {
			logger.Error("schedule: stale promotions", "error", err)
			return
		}
		if n > 0 {
			logger.Info("schedule: deactivated stale promotions", "count", n)
		}
	})
}

// Start boots the app and serves HTTP until SIGINT/SIGTERM, then drains
// in-flight requests for up to ten seconds.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpKernel := kernel.NewHTTPKernel()

	queue.StartWorkers(ctx, 5)
	RegisterSchedules()
	schedule.Start(ctx)

	if port := config.GRPCPort(); port != "" {
		grpcSrv, lis, err := grpcserver.Start(port)
		if err != nil {
			logger.Error("server: grpc start failed", "error", err)
		} else {
			logger.Info("server: grpc listening", "addr", lis.Addr().String())
			defer grpcserver.Stop(grpcSrv)
		}
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: http listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("server: shutting down")
	return srv.Shutdown(shutdownCtx)
}
