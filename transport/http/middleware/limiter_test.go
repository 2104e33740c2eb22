package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"stayfinder/config"
	"stayfinder/infras/otel/mocks"
	cacheMocks "stayfinder/shared/cache/mocks"
	"stayfinder/shared/constant"
	"stayfinder/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enabled       bool
		count         int64
		cacheErr      error
		wantCode      int
		wantRemaining string
		wantRetry     string
	}{
		{name: "disabled", enabled: false, wantCode: http.StatusOK},
		{name: "first request", enabled: true, count: 1, wantCode: http.StatusOK, wantRemaining: "2"},
		{name: "last allowed request", enabled: true, count: 3, wantCode: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", enabled: true, count: 4, wantCode: http.StatusTooManyRequests, wantRetry: "60"},
		{name: "cache unavailable", enabled: true, cacheErr: errors.New("connection refused"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enabled
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
			if tt.enabled {
				cache.EXPECT().
					Increment(gomock.Any(), "limiter:10.0.0.7:curl", 60).
					Return(tt.count, tt.cacheErr)
			}

			app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache)
			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/listings", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.7, 172.16.0.1")
			req.Header.Set(constant.RequestHeaderUserAgent, "curl")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
			assert.Equal(t, tt.wantRetry, rec.Header().Get(constant.RequestHeaderRetryAfter))
		})
	}
}

func TestRateLimit_RemoteAddr(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 10
	cfg.App.RateLimiter.WindowSeconds = 30

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	cache.EXPECT().Increment(gomock.Any(), "limiter:192.0.2.10:unknown", 30).Return(int64(1), nil)

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache)
	handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/listings", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Del(constant.RequestHeaderUserAgent)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "9", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
}
