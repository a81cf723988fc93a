package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/api"
	"alarm-clock-backend/internal/controller"
	"alarm-clock-backend/internal/db"
	"alarm-clock-backend/internal/events"
	"alarm-clock-backend/internal/kv"
	"alarm-clock-backend/internal/notification"
	"alarm-clock-backend/internal/scheduler"
	"alarm-clock-backend/internal/store"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	gormDB, err := db.Init(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database initialized", zap.String("slot", cfg.Storage.SlotKey))

	alarms := store.NewKVStore(kv.NewGormStore(gormDB), cfg.Storage.SlotKey, logger)
	broker := events.NewBroker(logger)

	var (
		notifier       controller.Notifier
		pool           *notification.WorkerPool
		webpushOptions *webpush.Options
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions, logger)
		notifier = pool
	} else {
		logger.Warn("VAPID keys are not configured, push notifications disabled")
	}

	ctl := controller.New(alarms, broker, notifier, controller.Options{
		RingMode: cfg.Scheduler.RingMode,
		Snooze:   cfg.Scheduler.Snooze,
		Location: loc,
	}, logger)
	ctl.Start(ctx)

	sched := scheduler.NewService(cfg.Scheduler.Interval, loc, alarms, ctl, logger)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(ctl, broker, gormDB, webpushOptions, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	// Requests inherit gctx so open event streams end when shutdown begins.
	server.BaseContext = func(net.Listener) context.Context { return gctx }
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if pool != nil {
		g.Go(func() error {
			return pool.Run(gctx)
		})
	}
	g.Go(func() error {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		sqlDB.Close()
	}
	if err == nil {
		logger.Info("server gracefully stopped")
	}
	return err
}
