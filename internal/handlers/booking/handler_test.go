package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "roombook/infras/otel/mocks"
	"roombook/internal/domains/booking/model/dto"
	serviceMocks "roombook/internal/domains/booking/service/mocks"
	"roombook/internal/handlers/booking"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const roomID = "6c1f3c36-8f6e-4b43-9a55-0d6b6e0f4a11"

func setup(t *testing.T) (*serviceMocks.MockBooking, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockBooking(ctrl)

	h := booking.New(svc, otelMocks.NewOtel())
	r := chi.NewRouter()
	h.Router(r)

	return svc, r
}

func asUser(req *http.Request, user string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, user))
}

func TestCreateBooking(t *testing.T) {
	validBody := `{"room_id":"` + roomID + `","booking_date":"2030-03-02","start_time":"2030-03-02T10:00:00Z","end_time":"2030-03-02T11:00:00Z"}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *serviceMocks.MockBooking)
		wantStatus int
	}{
		{
			name: "created",
			body: validBody,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: "b1", RoomID: roomID, UserID: "u1"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"room_id":`,
			setupMock:  func(*serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad time format",
			body:       `{"room_id":"` + roomID + `","booking_date":"2030-03-02","start_time":"10:00","end_time":"2030-03-02T11:00:00Z"}`,
			setupMock:  func(*serviceMocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "overlap",
			body: validBody,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.Conflict("room is already booked"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown room",
			body: validBody,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.NotFound("room not found"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "store unavailable",
			body: validBody,
			setupMock: func(svc *serviceMocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.StoreUnavailable(context.DeadlineExceeded))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, handler := setup(t)
			tt.setupMock(svc)

			req := asUser(httptest.NewRequest(http.MethodPost, "/bookings/", strings.NewReader(tt.body)), "u1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateBooking_ReturnsBooking(t *testing.T) {
	svc, handler := setup(t)
	svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: "b1", RoomID: roomID, Purpose: "Meeting"}, nil)

	body := `{"room_id":"` + roomID + `","booking_date":"2030-03-02","start_time":"2030-03-02T10:00:00Z","end_time":"2030-03-02T11:00:00Z"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPost, "/bookings/", strings.NewReader(body)), "u1"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		Data dto.BookingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "b1", payload.Data.ID)
	assert.Equal(t, "Meeting", payload.Data.Purpose)
}

func TestGetMyBookings(t *testing.T) {
	svc, handler := setup(t)
	svc.EXPECT().ListByUser(gomock.Any(), "u1").Return([]dto.BookingResponse{{ID: "b1"}}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/bookings/mine", nil), "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/mine", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRoutes(t *testing.T) {
	svc, handler := setup(t)

	svc.EXPECT().ListByRoom(gomock.Any(), roomID).Return(dto.RoomBookingsResponse{Bookings: []dto.BookingResponse{}}, nil)
	svc.EXPECT().ListByUser(gomock.Any(), "u7").Return([]dto.BookingResponse{}, nil)
	svc.EXPECT().
		ListAll(gomock.Any(), gDto.QueryParams{Page: 2, Limit: 5}).
		Return(dto.GetBookingsResponse{TotalData: 6, TotalPage: 2}, nil)

	for _, path := range []string{"/bookings/room/" + roomID, "/bookings/user/u7", "/bookings/?page=2&limit=5"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGetUpdateDeleteBooking(t *testing.T) {
	svc, handler := setup(t)

	svc.EXPECT().Get(gomock.Any(), "b1").Return(dto.BookingResponse{ID: "b1"}, nil)
	svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.BookingResponse{}, failure.NotFound("booking not found"))
	svc.EXPECT().Update(gomock.Any(), gomock.Any(), "b1").Return(dto.BookingResponse{}, failure.Conflict("room is already booked"))
	svc.EXPECT().Delete(gomock.Any(), "b1").Return(nil)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/bookings/b1", "", http.StatusOK},
		{http.MethodGet, "/bookings/missing", "", http.StatusNotFound},
		{http.MethodPatch, "/bookings/b1", `{"end_time":"2030-03-02T12:00:00Z"}`, http.StatusConflict},
		{http.MethodPatch, "/bookings/b1", `{"end_time":"noon"}`, http.StatusBadRequest},
		{http.MethodDelete, "/bookings/b1", "", http.StatusOK},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, asUser(httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)), "u1"))

		assert.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestGetRoomBookings_ReportsAvailability(t *testing.T) {
	svc, handler := setup(t)

	svc.EXPECT().
		ListByRoom(gomock.Any(), roomID).
		Return(dto.RoomBookingsResponse{Bookings: []dto.BookingResponse{{ID: "b1", RoomID: roomID}}, IsAvailable: false}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/room/"+roomID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.RoomBookingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.IsAvailable)
	require.Len(t, body.Data.Bookings, 1)
	assert.Equal(t, "b1", body.Data.Bookings[0].ID)
	assert.Contains(t, rec.Body.String(), `"is_available":false`)

	svc.EXPECT().ListByRoom(gomock.Any(), "gone").Return(dto.RoomBookingsResponse{}, failure.NotFound("room not found"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/room/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
