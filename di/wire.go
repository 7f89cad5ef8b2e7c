//go:build wireinject
// +build wireinject

package di

import (
	"roombook/config"
	"roombook/infras/jwt"
	"roombook/infras/kafka"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/infras/redis"
	"roombook/infras/s3"
	availabilityService "roombook/internal/domains/availability/service"
	"roombook/internal/domains/booking/conflict"
	bookingRepository "roombook/internal/domains/booking/repository"
	bookingService "roombook/internal/domains/booking/service"
	"roombook/internal/domains/retention/archive"
	retentionService "roombook/internal/domains/retention/service"
	roomRepository "roombook/internal/domains/room/repository"
	roomService "roombook/internal/domains/room/service"
	"roombook/internal/events"
	bookingHandler "roombook/internal/handlers/booking"
	maintenanceHandler "roombook/internal/handlers/maintenance"
	roomHandler "roombook/internal/handlers/room"
	"roombook/internal/scheduler"
	"roombook/permissions"
	"roombook/shared/cache"
	"roombook/shared/timezone"
	"roombook/transport/http"
	"roombook/transport/http/middleware"
	"roombook/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.New,
	timezone.SystemClock,
	events.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	wire.Bind(new(bookingRepository.Rooms), new(roomRepository.Room)),
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	conflict.New,
	bookingService.New,
	wire.Bind(new(roomService.Bookings), new(bookingRepository.Booking)),
	wire.Bind(new(conflict.Store), new(bookingRepository.Booking)),
)

var maintenanceDomain = wire.NewSet(
	availabilityService.New,
	archive.New,
	retentionService.New,
	scheduler.New,
	wire.Bind(new(availabilityService.Occupancy), new(bookingRepository.Booking)),
	wire.Bind(new(retentionService.Store), new(bookingRepository.Booking)),
	wire.Bind(new(scheduler.Locker), new(cache.Cache)),
)

var domains = wire.NewSet(
	roomDomain,
	bookingDomain,
	maintenanceDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
	maintenanceHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
