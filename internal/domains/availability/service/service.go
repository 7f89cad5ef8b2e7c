// Package service re-derives every room's available flag from the booking store.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"roombook/config"
	"roombook/infras/otel"
	roomRepo "roombook/internal/domains/room/repository"
	roomService "roombook/internal/domains/room/service"
	"roombook/shared/constant"
	"roombook/shared/logger"
	"roombook/shared/timezone"
	"time"
)

const (
	jobName          = "availability"
	defaultBatchSize = 100
)

// Report summarises one reconciliation pass.
type Report struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
}

type Reconciler interface {
	// Reconcile sets available = no booking covers now, for every room. Rooms that fail
	// are skipped and counted; the pass goes on with the rest.
	Reconcile(ctx context.Context) (Report, error)
}

// Occupancy answers whether a room is in use at an instant.
type Occupancy interface {
	ExistsActiveAt(ctx context.Context, roomID string, at time.Time) (bool, error)
}

type reconciler struct {
	rooms     roomRepo.Room
	occupancy Occupancy
	registry  roomService.Room
	cfg       *config.Config
	otel      otel.Otel
	clock     timezone.Clock
}

func New(rooms roomRepo.Room, occupancy Occupancy, registry roomService.Room, cfg *config.Config, otel otel.Otel, clock timezone.Clock) Reconciler {
	return &reconciler{
		rooms:     rooms,
		occupancy: occupancy,
		registry:  registry,
		cfg:       cfg,
		otel:      otel,
		clock:     clock,
	}
}

func (r *reconciler) Reconcile(ctx context.Context) (report Report, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".Availability.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	log := logger.Job(jobName)
	batchSize := r.cfg.Scheduler.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	now := r.clock.Now()

	var (
		afterID  string
		firstErr error
	)

	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("reconcile interrupted after %d rooms: %w", report.Scanned, err)
		}

		rooms, err := r.rooms.ListAfter(ctx, afterID, batchSize)
		if err != nil {
			return report, fmt.Errorf("failed to list rooms: %w", err)
		}

		for _, room := range rooms {
			report.Scanned++

			occupied, err := r.occupancy.ExistsActiveAt(ctx, room.ID, now)
			if err != nil {
				log.Error().Err(err).Str("room_id", room.ID).Msg("failed to check room occupancy")

				report.Failed++
				if firstErr == nil {
					firstErr = err
				}

				continue
			}

			if room.Available == !occupied {
				continue
			}

			if err := r.registry.SetAvailability(ctx, room.ID, !occupied); err != nil {
				log.Error().Err(err).Str("room_id", room.ID).Msg("failed to update room availability")

				report.Failed++
				if firstErr == nil {
					firstErr = err
				}

				continue
			}

			log.Info().Str("room_id", room.ID).Bool("available", !occupied).Msg("room availability corrected")

			report.Changed++
		}

		if len(rooms) < batchSize {
			break
		}

		afterID = rooms[len(rooms)-1].ID
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d rooms could not be reconciled: %w", report.Failed, report.Scanned, firstErr)
	}

	return report, nil
}
