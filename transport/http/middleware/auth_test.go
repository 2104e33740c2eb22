package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"stayfinder/config"
	"stayfinder/infras/jwt"
	"stayfinder/infras/otel/mocks"
	"stayfinder/permissions"
	"stayfinder/shared/constant"
	"stayfinder/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecuredRouter(t *testing.T) (chi.Router, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "stayfinder"
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "test-secret"
	cfg.JWT.AccessExpireMin = 5

	tokens := jwt.New(cfg)
	authRole := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), permissions.Get(), cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		actor, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.Header().Set("X-Actor", actor)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Route("/v1/listings", func(r chi.Router) {
		r.Get("/", ok)
		r.Get("/{id}", ok)
		r.Put("/{id}", ok)
		r.Patch("/{id}/archive", ok)
	})

	return router, tokens
}

func TestAuthRole(t *testing.T) {
	router, tokens := newSecuredRouter(t)

	hostToken, err := tokens.GenerateAccessToken("host-1", "host@example.com", constant.RoleHost)
	require.NoError(t, err)

	guestToken, err := tokens.GenerateAccessToken("guest-1", "guest@example.com", constant.RoleGuest)
	require.NoError(t, err)

	tests := []struct {
		name      string
		method    string
		target    string
		header    map[string]string
		wantCode  int
		wantActor string
	}{
		{
			name:     "public listing index",
			method:   http.MethodGet,
			target:   "/v1/listings",
			wantCode: http.StatusOK,
		},
		{
			name:     "public listing detail",
			method:   http.MethodGet,
			target:   "/v1/listings/l-1?includeArchived=true",
			wantCode: http.StatusOK,
		},
		{
			name:     "archive without token",
			method:   http.MethodPatch,
			target:   "/v1/listings/l-1/archive",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "archive with garbage token",
			method:   http.MethodPatch,
			target:   "/v1/listings/l-1/archive",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer nope"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "archive as guest",
			method:   http.MethodPatch,
			target:   "/v1/listings/l-1/archive",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer " + guestToken},
			wantCode: http.StatusForbidden,
		},
		{
			name:      "archive as host",
			method:    http.MethodPatch,
			target:    "/v1/listings/l-1/archive",
			header:    map[string]string{constant.RequestHeaderAuthorization: "Bearer " + hostToken},
			wantCode:  http.StatusOK,
			wantActor: "host-1",
		},
		{
			name:     "edit as guest",
			method:   http.MethodPut,
			target:   "/v1/listings/l-1",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer " + guestToken},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "internal caller with api key",
			method:   http.MethodPatch,
			target:   "/v1/listings/l-1/archive",
			header:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPatch,
			target:   "/v1/listings/l-1/archive",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "unknown route is left to the router",
			method:   http.MethodGet,
			target:   "/v1/unknown",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantActor, rec.Header().Get("X-Actor"))
		})
	}
}
