package health

import (
	"context"
	"net/http"
	"stayfinder/infras/otel"
	"stayfinder/infras/postgres"
	"stayfinder/shared/cache"
	"stayfinder/shared/constant"
	"stayfinder/transport/http/response"
	"time"

	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by every dependency the service cannot answer without.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	dependencies map[string]Pinger
	otel         otel.Otel
}

func New(db *postgres.Connection, cache cache.RedisCache, otel otel.Otel) Handler {
	return NewWithDependencies(otel, map[string]Pinger{
		"postgres": db,
		"redis":    cache,
	})
}

func NewWithDependencies(otel otel.Otel, dependencies map[string]Pinger) Handler {
	return Handler{
		dependencies: dependencies,
		otel:         otel,
	}
}

// Check reports liveness of the service and its backing stores.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	for name, dependency := range handler.dependencies {
		if err := dependency.Ping(ctx); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("dependency", name).Msg("health check failed")

			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
