package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/internal/domains/room/model"
	gDto "roombook/shared/dto"

	"github.com/rs/zerolog/log"
)

// Room is the registry of rooms. Get and GetByName return a zero Room when nothing matches.
type Room interface {
	Insert(ctx context.Context, room model.Room) error
	Get(ctx context.Context, id string) (model.Room, error)
	GetByName(ctx context.Context, name string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Room, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	// ListAfter returns up to limit rooms ordered by id, starting after afterID.
	ListAfter(ctx context.Context, afterID string, limit int) ([]model.Room, error)
	Update(ctx context.Context, room model.Room) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

// New picks the store named by cfg.DB.Driver.
func New(cfg *config.Config, db *postgres.Connection, otel otel.Otel) Room {
	if cfg.DB.Driver == config.DriverMemory {
		log.Info().Msg("Using in-memory room store")

		return NewMemory()
	}

	return NewPostgres(db, otel)
}
