package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roombook/config"
	"roombook/infras/jwt"
	otelMocks "roombook/infras/otel/mocks"
	availabilityMocks "roombook/internal/domains/availability/service/mocks"
	bookingDto "roombook/internal/domains/booking/model/dto"
	bookingMocks "roombook/internal/domains/booking/service/mocks"
	retentionMocks "roombook/internal/domains/retention/service/mocks"
	roomDto "roombook/internal/domains/room/model/dto"
	roomMocks "roombook/internal/domains/room/service/mocks"
	"roombook/internal/handlers/booking"
	"roombook/internal/handlers/maintenance"
	"roombook/internal/handlers/room"
	"roombook/permissions"
	"roombook/shared/cache"
	"roombook/shared/constant"
	transport "roombook/transport/http"
	"roombook/transport/http/middleware"
	"roombook/transport/http/router"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	secret = "test-secret"
	apiKey = "internal-key"
)

type fixture struct {
	rooms    *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	server   *transport.HTTP
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	rooms := roomMocks.NewMockRoom(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)
	reconciler := availabilityMocks.NewMockReconciler(ctrl)
	sweeper := retentionMocks.NewMockSweeper(ctrl)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKey = apiKey

	tracer := otelMocks.NewOtel()

	routes := router.New(router.DomainHandlers{
		Room:        room.New(rooms, tracer),
		Booking:     booking.New(bookings, tracer),
		Maintenance: maintenance.New(reconciler, sweeper, tracer),
	})

	server := transport.New(
		cfg,
		routes,
		middleware.NewAppMiddleware(tracer, cfg, cache.NewNoop()),
		middleware.NewAuthRoleMiddleware(jwt.New(cfg), tracer, permissions.Get(), cfg),
	)

	return fixture{rooms: rooms, bookings: bookings, server: server}
}

func token(t *testing.T, user, role string) string {
	t.Helper()

	claims := jwt.Claims{
		UserID: user,
		Role:   role,
		Type:   jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func (f fixture) do(method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(constant.RequestHeaderAuthorization, auth)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.ServerStateReady, f.server.State())
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, rec.Body.String())
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	f := newFixture(t)

	f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomDto.GetRoomsResponse{}, nil)
	f.bookings.EXPECT().ListByRoom(gomock.Any(), "r1").Return(bookingDto.RoomBookingsResponse{}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/rooms", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/bookings/room/r1", "").Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		auth string
	}{
		{name: "missing header", auth: ""},
		{name: "not bearer", auth: "Basic abc"},
		{name: "bad signature", auth: "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/v1/bookings/mine", tt.auth)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticatedUserSeesOwnBookings(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().ListByUser(gomock.Any(), "u1").Return([]bookingDto.BookingResponse{{ID: "b1"}}, nil)

	rec := f.do(http.MethodGet, "/v1/bookings/mine", token(t, "u1", constant.RoleUser))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleChecks(t *testing.T) {
	f := newFixture(t)

	f.rooms.EXPECT().Delete(gomock.Any(), "r1").Return(nil)
	f.bookings.EXPECT().ListByUser(gomock.Any(), "u2").Return([]bookingDto.BookingResponse{}, nil)

	user := token(t, "u1", constant.RoleUser)
	admin := token(t, "a1", constant.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/v1/rooms/r1", user).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/v1/bookings/user/u2", user).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/v1/maintenance/reconcile", user).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/v1/bookings/purge", user).Code)

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/v1/rooms/r1", admin).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/bookings/user/u2", admin).Code)
}

func TestAPIKey(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().ListByUser(gomock.Any(), constant.RoleSystem).Return([]bookingDto.BookingResponse{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	req.Header.Set(constant.RequestHeaderAPIKey, apiKey)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/bookings/mine", nil)
	req.Header.Set(constant.RequestHeaderAPIKey, "wrong")

	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/rooms/r1", nil)
	req.Header.Set(constant.RequestHeaderAPIKey, apiKey)

	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "system role is still bound by route rules")
}
