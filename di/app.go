package di

import (
	"context"
	"roombook/infras/kafka"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	availabilityService "roombook/internal/domains/availability/service"
	retentionService "roombook/internal/domains/retention/service"
	"roombook/internal/scheduler"
	"roombook/transport/http"
	"time"

	"github.com/rs/zerolog/log"
)

// App is everything main needs to run and stop the service.
type App struct {
	HTTP       *http.HTTP
	Scheduler  scheduler.Scheduler
	Reconciler availabilityService.Reconciler
	Sweeper    retentionService.Sweeper
	DB         *postgres.Connection
	Kafka      kafka.Client
	Otel       otel.Otel
}

const flushTimeout = 5 * time.Second

// Close releases the connections opened by InitializeService.
func (a *App) Close() {
	if a.Kafka != nil {
		if err := a.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed closing Kafka writer")
		}
	}

	a.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := a.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed flushing traces")
	}
}
