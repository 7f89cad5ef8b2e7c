// Package service removes bookings whose end has passed.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/internal/domains/booking/model"
	"roombook/internal/domains/retention/archive"
	"roombook/internal/events"
	"roombook/shared/constant"
	"roombook/shared/logger"
	"roombook/shared/timezone"
	"time"
)

const (
	jobName          = "retention"
	defaultBatchSize = 100
)

// Report summarises one sweep.
type Report struct {
	Cutoff  time.Time `json:"cutoff"`
	Deleted int64     `json:"deleted"`
	Batches int       `json:"batches"`
}

type Sweeper interface {
	// Sweep deletes every booking whose end is strictly before now at the time of the call.
	Sweep(ctx context.Context) (Report, error)
}

// Store is the slice of the booking repository the sweeper needs.
type Store interface {
	ListEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type sweeper struct {
	store     Store
	archive   archive.Archive
	publisher events.Publisher
	cfg       *config.Config
	otel      otel.Otel
	clock     timezone.Clock
}

func New(store Store, archive archive.Archive, publisher events.Publisher, cfg *config.Config, otel otel.Otel, clock timezone.Clock) Sweeper {
	return &sweeper{
		store:     store,
		archive:   archive,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
		clock:     clock,
	}
}

func (s *sweeper) Sweep(ctx context.Context) (report Report, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".Retention.Sweep")
	defer scope.End()
	defer scope.TraceIfError(&err)

	log := logger.Job(jobName)
	batchSize := s.cfg.Scheduler.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	report.Cutoff = s.clock.Now()

	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("sweep interrupted after %d bookings: %w", report.Deleted, err)
		}

		expired, err := s.store.ListEndedBefore(ctx, report.Cutoff, batchSize)
		if err != nil {
			return report, fmt.Errorf("failed to list expired bookings: %w", err)
		}

		if len(expired) == 0 {
			break
		}

		if err := s.archive.Store(ctx, report.Cutoff, expired); err != nil {
			return report, fmt.Errorf("failed to archive expired bookings: %w", err)
		}

		ids := make([]string, len(expired))
		batch := make([]events.Event, len(expired))

		for i, b := range expired {
			ids[i] = b.ID
			batch[i] = events.Event{
				Type:       events.BookingExpired,
				Key:        b.RoomID,
				OccurredAt: report.Cutoff,
				Payload:    map[string]any{model.FieldID: b.ID, model.FieldEndTime: b.EndTime},
			}
		}

		deleted, err := s.store.DeleteByIDs(ctx, ids)
		if err != nil {
			return report, fmt.Errorf("failed to delete expired bookings: %w", err)
		}

		report.Deleted += deleted
		report.Batches++

		s.publisher.Publish(ctx, batch...)

		if len(expired) < batchSize {
			break
		}
	}

	log.Info().Int64("deleted", report.Deleted).Time("cutoff", report.Cutoff).Msg("expired bookings swept")

	return report, nil
}
