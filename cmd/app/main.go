package main

import (
	"stayfinder/config"
	"stayfinder/di"
	"stayfinder/helper"
	"stayfinder/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title StayFinder API
// @version 1.0
// @description Vacation rental listings, bookings and guest notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
