package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roombook/config"
	otelMocks "roombook/infras/otel/mocks"
	cacheMocks "roombook/shared/cache/mocks"
	"roombook/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limiterConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		err           error
		wantStatus    int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantStatus: http.StatusNoContent, wantRemaining: "1"},
		{name: "last allowed", count: 2, wantStatus: http.StatusNoContent, wantRemaining: "0"},
		{name: "over budget", count: 3, wantStatus: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "counter down fails open", err: errors.New("connection refused"), wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := cacheMocks.NewMockCache(ctrl)

			store.EXPECT().
				Increment(gomock.Any(), "limiter:10.0.0.7:curl", time.Minute).
				Return(tt.count, tt.err)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(true), store)

			req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			req.Header.Set("User-Agent", "curl")

			rec := httptest.NewRecorder()
			app.RateLimit()(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := cacheMocks.NewMockCache(ctrl)

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(false), store)

	rec := httptest.NewRecorder()
	app.RateLimit()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://rooms.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost}

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/rooms", nil)
	req.Header.Set("Origin", "https://rooms.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	app.CORS()(ok).ServeHTTP(rec, req)

	assert.Equal(t, "https://rooms.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
