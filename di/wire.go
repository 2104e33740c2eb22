//go:build wireinject
// +build wireinject

package di

import (
	"stayfinder/config"
	"stayfinder/infras/jwt"
	"stayfinder/infras/kafka"
	"stayfinder/infras/otel"
	"stayfinder/infras/postgres"
	"stayfinder/infras/redis"
	"stayfinder/infras/s3"
	"stayfinder/permissions"
	"stayfinder/shared/cache"
	"stayfinder/transport/http"
	"stayfinder/transport/http/middleware"
	"stayfinder/transport/http/router"

	archivalService "stayfinder/internal/domains/archival/service"
	bookingRepository "stayfinder/internal/domains/booking/repository"
	bookingService "stayfinder/internal/domains/booking/service"
	listingRepository "stayfinder/internal/domains/listing/repository"
	listingService "stayfinder/internal/domains/listing/service"
	notificationRepository "stayfinder/internal/domains/notification/repository"
	notificationService "stayfinder/internal/domains/notification/service"

	bookingHandler "stayfinder/internal/handlers/booking"
	healthHandler "stayfinder/internal/handlers/health"
	listingHandler "stayfinder/internal/handlers/listing"
	notificationHandler "stayfinder/internal/handlers/notification"

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
	cache.NewRedisCache,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingRepository.NewReview,
	listingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var archivalDomain = wire.NewSet(
	archivalService.New,
)

var domains = wire.NewSet(
	listingDomain,
	bookingDomain,
	notificationDomain,
	archivalDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	listingHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
