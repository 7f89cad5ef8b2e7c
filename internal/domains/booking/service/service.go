package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/internal/domains/booking/conflict"
	"roombook/internal/domains/booking/model"
	"roombook/internal/domains/booking/model/dto"
	"roombook/internal/domains/booking/repository"
	roomService "roombook/internal/domains/room/service"
	"roombook/internal/events"
	"roombook/shared"
	"roombook/shared/cache"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"roombook/shared/interval"
	"roombook/shared/timezone"
	"roombook/shared/validator"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking  = "booking:get"
	cacheListBooking = "booking:list"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	// Delete removes the booking and recomputes the available flag of its room.
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	// ListByRoom returns the room's bookings with its available flag. A missing room is ErrNotFound.
	ListByRoom(ctx context.Context, roomID string) (dto.RoomBookingsResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.BookingResponse, error)
	ListAll(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	// RefreshAvailability sets the room's available flag to whether no booking covers the current instant.
	RefreshAvailability(ctx context.Context, roomID string) error
}

type serviceImpl struct {
	repo      repository.Booking
	checker   conflict.Checker
	rooms     roomService.Room
	cfg       *config.Config
	cache     cache.Cache
	otel      otel.Otel
	publisher events.Publisher
	clock     timezone.Clock
}

func New(
	repo repository.Booking,
	checker conflict.Checker,
	rooms roomService.Room,
	cfg *config.Config,
	cache cache.Cache,
	otel otel.Otel,
	publisher events.Publisher,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:      repo,
		checker:   checker,
		rooms:     rooms,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
		clock:     clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing caller identity") //nolint:wrapcheck
	}

	now := s.clock.Now()

	booking, err := req.ToModel(user, now)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if err = validateWindow(booking, now); err != nil {
		return res, err
	}

	if err = s.admit(ctx, booking, constant.Empty); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.refreshQuietly(ctx, booking.RoomID)
	s.invalidate(ctx, booking.ID)
	s.publish(ctx, events.BookingCreated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Update")
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
	now := s.clock.Now()

	booking, err := req.Apply(current, user, now)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !interval.Valid(booking.StartTime, booking.EndTime) {
		return res, failure.BadRequestFromString("start_time must be before end_time") //nolint:wrapcheck
	}

	if req.MovesWindow() {
		if err = validateWindow(booking, now); err != nil {
			return res, err
		}

		if err = s.admit(ctx, booking, id); err != nil {
			return res, err
		}
	}

	if err = s.repo.Update(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	s.refreshQuietly(ctx, current.RoomID)
	if booking.RoomID != current.RoomID {
		s.refreshQuietly(ctx, booking.RoomID)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.BookingUpdated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if !deleted {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	s.refreshQuietly(ctx, booking.RoomID)
	s.invalidate(ctx, id)
	s.publish(ctx, events.BookingDeleted, booking)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) ListByRoom(ctx context.Context, roomID string) (res dto.RoomBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.ListByRoom")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return res, fmt.Errorf("failed to get room: %w", err)
	}

	res.Bookings, err = s.list(ctx, shared.BuildCacheKey(cacheListBooking, "room", roomID), model.ListFilter{RoomID: roomID})
	if err != nil {
		return res, err
	}

	res.IsAvailable = room.Available

	return res, nil
}

func (s *serviceImpl) ListByUser(ctx context.Context, userID string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.ListByUser")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.list(ctx, shared.BuildCacheKey(cacheListBooking, "user", userID), model.ListFilter{UserID: userID})
}

func (s *serviceImpl) list(ctx context.Context, cacheKey string, filter model.ListFilter) (res []dto.BookingResponse, err error) {
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	models, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res = dto.FromModels(models)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) ListAll(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.ListAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheListBooking, "all"), params, nil)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	filter := model.ListFilter{Page: params.Page, Limit: params.Limit}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) RefreshAvailability(ctx context.Context, roomID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.RefreshAvailability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	occupied, err := s.repo.ExistsActiveAt(ctx, roomID, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to check room occupancy: %w", err)
	}

	if err = s.rooms.SetAvailability(ctx, roomID, !occupied); err != nil {
		return fmt.Errorf("failed to refresh room availability: %w", err)
	}

	return nil
}

// refreshQuietly keeps the flag fresh for readers. A failure here is left to the reconciler.
func (s *serviceImpl) refreshQuietly(ctx context.Context, roomID string) {
	if err := s.RefreshAvailability(ctx, roomID); err != nil && !errors.Is(err, failure.ErrNotFound) {
		log.Warn().Err(err).Str("room_id", roomID).Msg("failed to refresh room availability")
	}
}

// admit runs the advisory checks before the store's own atomic re-check.
func (s *serviceImpl) admit(ctx context.Context, booking model.Booking, excludeID string) error {
	if _, err := s.rooms.Get(ctx, booking.RoomID); err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	conflicts, err := s.checker.Conflicts(ctx, booking.RoomID, booking.StartTime, booking.EndTime, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if len(conflicts) > 0 {
		clash := conflicts[0]

		return failure.Conflict(fmt.Sprintf( //nolint:wrapcheck
			"room is already booked from %s to %s",
			timezone.Format(clash.StartTime, constant.InstantFormat),
			timezone.Format(clash.EndTime, constant.InstantFormat),
		))
	}

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) publish(ctx context.Context, eventType events.Type, booking model.Booking) {
	var payload dto.BookingResponse
	payload.FromModel(booking)

	s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        booking.RoomID,
		OccurredAt: s.clock.Now(),
		Payload:    payload,
	})
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save bookings to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheListBooking)
	}()
}

func validateWindow(booking model.Booking, now time.Time) error {
	if !interval.Valid(booking.StartTime, booking.EndTime) {
		return failure.BadRequestFromString("start_time must be before end_time") //nolint:wrapcheck
	}

	year, month, day := booking.BookingDate.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, timezone.GetLocation())

	if date.Before(timezone.StartOfDay(now)) {
		return failure.BadRequestFromString("booking_date must not be in the past") //nolint:wrapcheck
	}

	return nil
}
