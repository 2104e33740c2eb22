package router

import (
	"stayfinder/internal/handlers/booking"
	"stayfinder/internal/handlers/health"
	"stayfinder/internal/handlers/listing"
	"stayfinder/internal/handlers/notification"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Listing      listing.Handler
	Booking      booking.Handler
	Notification notification.Handler
	Health       health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
