package main

import (
	"context"
	"os"
	"os/signal"
	"roombook/config"
	"roombook/di"
	"roombook/helper"
	"roombook/shared/logger"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Driver == config.DriverPostgres && cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()
	defer app.Close()

	if cfg.Scheduler.Enable {
		app.Scheduler.Register("reconcile-availability", time.Duration(cfg.Scheduler.ReconcileEverySeconds)*time.Second, func(ctx context.Context) error {
			_, err := app.Reconciler.Reconcile(ctx)

			return err
		})

		app.Scheduler.Register("sweep-expired-bookings", time.Duration(cfg.Scheduler.SweepEverySeconds)*time.Second, func(ctx context.Context) error {
			_, err := app.Sweeper.Sweep(ctx)

			return err
		})

		app.Scheduler.Start(ctx)
		defer app.Scheduler.Stop()
	}

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
	}
}
