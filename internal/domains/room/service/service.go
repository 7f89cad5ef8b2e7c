package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/internal/domains/room/model"
	"roombook/internal/domains/room/model/dto"
	"roombook/internal/domains/room/repository"
	"roombook/internal/events"
	"roombook/shared"
	"roombook/shared/cache"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"roombook/shared/timezone"
	"roombook/shared/validator"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

var sortableColumns = []string{
	model.FieldName,
	model.FieldLocation,
	model.FieldCapacity,
	constant.FieldCreatedAt,
}

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter model.Filter) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	// SetAvailability writes the derived available flag of a room when it differs from the stored one.
	SetAvailability(ctx context.Context, id string, available bool) error
}

// Bookings tells whether a room is still referenced by a booking that has not ended.
type Bookings interface {
	ExistsEndingAfter(ctx context.Context, roomID string, at time.Time) (bool, error)
}

type serviceImpl struct {
	repo      repository.Room
	bookings  Bookings
	cfg       *config.Config
	cache     cache.Cache
	otel      otel.Otel
	publisher events.Publisher
	clock     timezone.Clock
}

func New(repo repository.Room, bookings Bookings, cfg *config.Config, cache cache.Cache, otel otel.Otel, publisher events.Publisher, clock timezone.Clock) Room {
	return &serviceImpl{
		repo:      repo,
		bookings:  bookings,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
		clock:     clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	room := req.ToModel(user, s.clock.Now())

	if err = s.ensureNameFree(ctx, room.Name, room.ID); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter model.Filter) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.RestrictSort(model.FieldName, gDto.SortDirAsc, sortableColumns...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter model.Filter) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, gDto.QueryParams{}, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	room := req.Apply(current, user, s.clock.Now())

	if room.Name != current.Name {
		if err = s.ensureNameFree(ctx, room.Name, room.ID); err != nil {
			return res, err
		}
	}

	if err = s.repo.Update(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)
	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	referenced, err := s.bookings.ExistsEndingAfter(ctx, id, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to check room bookings")

		return fmt.Errorf("failed to check room bookings: %w", err)
	}

	if referenced {
		return failure.Conflict("room still has bookings that have not ended") //nolint:wrapcheck
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if !deleted {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetAvailability(ctx context.Context, id string, available bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Room.SetAvailability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if room.Available == available {
		return nil
	}

	if err = s.repo.SetAvailability(ctx, id, available); err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to set room availability")

		return fmt.Errorf("failed to set room availability: %w", err)
	}

	s.invalidate(ctx, id)

	s.publisher.Publish(ctx, events.Event{
		Type:       events.RoomAvailabilityChanged,
		Key:        id,
		OccurredAt: s.clock.Now(),
		Payload:    map[string]any{model.FieldAvailable: available},
	})

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") //nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) ensureNameFree(ctx context.Context, name, id string) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room name")

		return fmt.Errorf("failed to check room name: %w", err)
	}

	if existing.ID != constant.Empty && existing.ID != id {
		return failure.Duplicate(fmt.Sprintf("room name %q already exists", name)) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}
