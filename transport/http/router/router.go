package router

import (
	"roombook/internal/handlers/booking"
	"roombook/internal/handlers/maintenance"
	"roombook/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Room        room.Handler
	Booking     booking.Handler
	Maintenance maintenance.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes mounts every domain under /v1. Maintenance registers the static
// /bookings/purge route, which chi matches ahead of /bookings/{id}.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(v1 chi.Router) {
		r.DomainHandlers.Room.Router(v1)
		r.DomainHandlers.Maintenance.Router(v1)
		r.DomainHandlers.Booking.Router(v1)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
