package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/internal/domains/booking/model"
	roomModel "roombook/internal/domains/room/model"
	"time"

	"github.com/rs/zerolog/log"
)

// Booking is the reservation store. Insert and Update admit a booking atomically:
// the overlap check and the write happen while every other writer to the same room
// is held off, and the loser of a race gets a Conflict failure.
type Booking interface {
	// Insert fails with NotFound when the room does not exist and Conflict when the window is taken.
	Insert(ctx context.Context, booking model.Booking) error
	// Update persists booking, ignoring its own stored window in the overlap check.
	Update(ctx context.Context, booking model.Booking) error
	// Get returns a zero Booking when id is unknown.
	Get(ctx context.Context, id string) (model.Booking, error)
	Delete(ctx context.Context, id string) (bool, error)
	// FindOverlapping lists bookings of roomID sharing an instant with [start, end), skipping excludeID.
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error)
	// List returns bookings ordered by start time.
	List(ctx context.Context, filter model.ListFilter) ([]model.Booking, error)
	Count(ctx context.Context, filter model.ListFilter) (int, error)
	// ExistsActiveAt reports whether a booking of roomID satisfies start <= at < end.
	ExistsActiveAt(ctx context.Context, roomID string, at time.Time) (bool, error)
	// ExistsEndingAfter reports whether a booking of roomID ends after at.
	ExistsEndingAfter(ctx context.Context, roomID string, at time.Time) (bool, error)
	// ListEndedBefore returns up to limit bookings whose end is strictly before cutoff.
	ListEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// Rooms resolves room ids for the in-memory store.
type Rooms interface {
	Get(ctx context.Context, id string) (roomModel.Room, error)
}

// New picks the store named by cfg.DB.Driver.
func New(cfg *config.Config, db *postgres.Connection, otel otel.Otel, rooms Rooms) Booking {
	if cfg.DB.Driver == config.DriverMemory {
		log.Info().Msg("Using in-memory booking store")

		return NewMemory(rooms)
	}

	return NewPostgres(db, otel)
}
