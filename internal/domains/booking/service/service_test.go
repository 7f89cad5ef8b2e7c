package service_test

import (
	"context"
	"errors"
	"roombook/config"
	otelMocks "roombook/infras/otel/mocks"
	"roombook/internal/domains/booking/conflict"
	bookingModel "roombook/internal/domains/booking/model"
	"roombook/internal/domains/booking/model/dto"
	bookingRepo "roombook/internal/domains/booking/repository"
	"roombook/internal/domains/booking/service"
	roomDto "roombook/internal/domains/room/model/dto"
	roomRepo "roombook/internal/domains/room/repository"
	roomService "roombook/internal/domains/room/service"
	"roombook/internal/events"
	eventMocks "roombook/internal/events/mocks"
	"roombook/shared/cache"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"roombook/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc   service.Booking
	rooms roomService.Room
	store bookingRepo.Booking
	clock *timezone.FixedClock
}

func newFixture(t *testing.T, publisher events.Publisher) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	otel := otelMocks.NewOtel()
	clock := timezone.NewFixedClock(time.Date(2030, 3, 2, 8, 0, 0, 0, timezone.GetLocation()))

	roomStore := roomRepo.NewMemory()
	store := bookingRepo.NewMemory(roomStore)
	rooms := roomService.New(roomStore, store, cfg, cache.NewNoop(), otel, events.NewNoop(), clock)

	if publisher == nil {
		publisher = events.NewNoop()
	}

	return fixture{
		svc:   service.New(store, conflict.New(store, otel), rooms, cfg, cache.NewNoop(), otel, publisher, clock),
		rooms: rooms,
		store: store,
		clock: clock,
	}
}

func userCtx(user string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, user)
}

func (f fixture) room(t *testing.T, name string) string {
	t.Helper()

	res, err := f.rooms.Create(userCtx("admin"), roomDto.CreateRoomRequest{Name: name, Location: "HQ", Capacity: 8})
	require.NoError(t, err)

	return res.ID
}

func instant(hour, minute int) string {
	return time.Date(2030, 3, 2, hour, minute, 0, 0, timezone.GetLocation()).Format(time.RFC3339)
}

func request(roomID string, from, to string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:      roomID,
		BookingDate: "2030-03-02",
		StartTime:   from,
		EndTime:     to,
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t, nil)
	roomID := f.room(t, "Orchid")

	_, err := f.svc.Create(userCtx("u1"), request(roomID, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	missingRoom := "6c1f3c36-8f6e-4b43-9a55-0d6b6e0f4a11"

	tests := []struct {
		name    string
		ctx     context.Context
		req     dto.CreateBookingRequest
		wantErr error
	}{
		{
			name:    "overlapping window",
			ctx:     userCtx("u2"),
			req:     request(roomID, instant(10, 30), instant(11, 30)),
			wantErr: failure.ErrConflict,
		},
		{
			name: "touching the end of an existing booking",
			ctx:  userCtx("u2"),
			req:  request(roomID, instant(11, 0), instant(12, 0)),
		},
		{
			name: "touching the start of an existing booking",
			ctx:  userCtx("u2"),
			req:  request(roomID, instant(9, 0), instant(10, 0)),
		},
		{
			name:    "end before start",
			ctx:     userCtx("u2"),
			req:     request(roomID, instant(15, 0), instant(14, 0)),
			wantErr: failure.ErrValidation,
		},
		{
			name:    "empty window",
			ctx:     userCtx("u2"),
			req:     request(roomID, instant(15, 0), instant(15, 0)),
			wantErr: failure.ErrValidation,
		},
		{
			name: "date in the past",
			ctx:  userCtx("u2"),
			req: dto.CreateBookingRequest{
				RoomID:      roomID,
				BookingDate: "2030-03-01",
				StartTime:   instant(15, 0),
				EndTime:     instant(16, 0),
			},
			wantErr: failure.ErrValidation,
		},
		{
			name:    "malformed date",
			ctx:     userCtx("u2"),
			req:     dto.CreateBookingRequest{RoomID: roomID, BookingDate: "02/03/2030", StartTime: instant(15, 0), EndTime: instant(16, 0)},
			wantErr: failure.ErrValidation,
		},
		{
			name:    "unknown room",
			ctx:     userCtx("u2"),
			req:     request(missingRoom, instant(15, 0), instant(16, 0)),
			wantErr: failure.ErrNotFound,
		},
		{
			name:    "anonymous caller",
			ctx:     context.Background(),
			req:     request(roomID, instant(15, 0), instant(16, 0)),
			wantErr: failure.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Create(tt.ctx, tt.req)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bookingModel.DefaultPurpose, res.Purpose)
			assert.Equal(t, "2030-03-02", res.BookingDate)
		})
	}
}

func TestBookingService_CreateOnTodayIsAllowed(t *testing.T) {
	f := newFixture(t, nil)
	roomID := f.room(t, "Orchid")

	f.clock.Set(time.Date(2030, 3, 2, 23, 0, 0, 0, timezone.GetLocation()))

	_, err := f.svc.Create(userCtx("u1"), request(roomID, instant(8, 0), instant(9, 0)))

	assert.NoError(t, err)
}

func TestBookingService_UpdateExcludesItself(t *testing.T) {
	f := newFixture(t, nil)
	roomID := f.room(t, "Orchid")

	first, err := f.svc.Create(userCtx("u1"), request(roomID, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	second, err := f.svc.Create(userCtx("u1"), request(roomID, instant(12, 0), instant(13, 0)))
	require.NoError(t, err)

	start, end := instant(10, 30), instant(11, 30)
	moved, err := f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{StartTime: &start, EndTime: &end}, first.ID)
	require.NoError(t, err)
	assert.Equal(t, start, moved.StartTime)

	clash := instant(12, 30)
	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{EndTime: &clash}, first.ID)
	assert.True(t, errors.Is(err, failure.ErrConflict), "got %v", err)

	backwards := instant(12, 0)
	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{StartTime: &backwards}, second.ID)
	// [12:00, 13:00) unchanged: the booking only overlaps itself.
	assert.NoError(t, err)

	inverted := instant(11, 45)
	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{EndTime: &inverted}, second.ID)
	assert.True(t, errors.Is(err, failure.ErrValidation), "got %v", err)

	purpose := "Retro"
	res, err := f.svc.Update(userCtx("u2"), dto.UpdateBookingRequest{Purpose: &purpose}, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Retro", res.Purpose)
	assert.Equal(t, "u1", res.UserID)

	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{}, second.ID)
	assert.True(t, errors.Is(err, failure.ErrValidation))

	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{Purpose: &purpose}, "missing")
	assert.True(t, errors.Is(err, failure.ErrNotFound))
}

func TestBookingService_MoveToAnotherRoom(t *testing.T) {
	f := newFixture(t, nil)
	orchid := f.room(t, "Orchid")
	lotus := f.room(t, "Lotus")

	booking, err := f.svc.Create(userCtx("u1"), request(orchid, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	_, err = f.svc.Create(userCtx("u2"), request(lotus, instant(10, 30), instant(11, 30)))
	require.NoError(t, err)

	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{RoomID: &lotus}, booking.ID)
	assert.True(t, errors.Is(err, failure.ErrConflict), "got %v", err)

	start, end := instant(8, 0), instant(9, 0)
	res, err := f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{RoomID: &lotus, StartTime: &start, EndTime: &end}, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, lotus, res.RoomID)

	inOrchid, err := f.svc.ListByRoom(context.Background(), orchid)
	require.NoError(t, err)
	assert.Empty(t, inOrchid.Bookings)
}

// A booking that covers the current instant makes its room unavailable, and
// deleting it makes the room available again.
func TestBookingService_AvailabilityFollowsBookings(t *testing.T) {
	f := newFixture(t, nil)
	roomID := f.room(t, "Orchid")

	f.clock.Set(time.Date(2030, 3, 2, 10, 15, 0, 0, timezone.GetLocation()))

	booking, err := f.svc.Create(userCtx("u1"), request(roomID, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	room, err := f.rooms.Get(context.Background(), roomID)
	require.NoError(t, err)
	assert.False(t, room.Available)

	listed, err := f.svc.ListByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Len(t, listed.Bookings, 1)
	assert.False(t, listed.IsAvailable)

	require.NoError(t, f.svc.Delete(userCtx("u1"), booking.ID))

	listed, err = f.svc.ListByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Empty(t, listed.Bookings)
	assert.True(t, listed.IsAvailable)

	_, err = f.svc.ListByRoom(context.Background(), "6c1f3c36-8f6e-4b43-9a55-0d6b6e0f4a11")
	assert.True(t, errors.Is(err, failure.ErrNotFound), "got %v", err)

	room, err = f.rooms.Get(context.Background(), roomID)
	require.NoError(t, err)
	assert.True(t, room.Available)

	err = f.svc.Delete(userCtx("u1"), booking.ID)
	assert.True(t, errors.Is(err, failure.ErrNotFound))
}

func TestBookingService_RefreshAvailability(t *testing.T) {
	f := newFixture(t, nil)
	roomID := f.room(t, "Orchid")

	_, err := f.svc.Create(userCtx("u1"), request(roomID, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	checks := []struct {
		at        time.Time
		available bool
	}{
		{at: time.Date(2030, 3, 2, 9, 59, 0, 0, timezone.GetLocation()), available: true},
		{at: time.Date(2030, 3, 2, 10, 0, 0, 0, timezone.GetLocation()), available: false},
		{at: time.Date(2030, 3, 2, 10, 59, 0, 0, timezone.GetLocation()), available: false},
		{at: time.Date(2030, 3, 2, 11, 0, 0, 0, timezone.GetLocation()), available: true},
	}

	for _, check := range checks {
		f.clock.Set(check.at)

		require.NoError(t, f.svc.RefreshAvailability(context.Background(), roomID))

		room, err := f.rooms.Get(context.Background(), roomID)
		require.NoError(t, err)
		assert.Equal(t, check.available, room.Available, "at %s", check.at)
	}

	err = f.svc.RefreshAvailability(context.Background(), "missing")
	assert.True(t, errors.Is(err, failure.ErrNotFound))
}

func TestBookingService_Listings(t *testing.T) {
	f := newFixture(t, nil)
	orchid := f.room(t, "Orchid")
	lotus := f.room(t, "Lotus")

	for _, c := range []struct {
		user, room string
		from, to   string
	}{
		{"u1", orchid, instant(9, 0), instant(10, 0)},
		{"u2", orchid, instant(10, 0), instant(11, 0)},
		{"u1", lotus, instant(9, 0), instant(10, 0)},
	} {
		_, err := f.svc.Create(userCtx(c.user), request(c.room, c.from, c.to))
		require.NoError(t, err)
	}

	byRoom, err := f.svc.ListByRoom(context.Background(), orchid)
	require.NoError(t, err)
	require.Len(t, byRoom.Bookings, 2)
	assert.Equal(t, "u1", byRoom.Bookings[0].UserID)
	assert.True(t, byRoom.IsAvailable)

	byUser, err := f.svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	none, err := f.svc.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := f.svc.ListAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalData)
	assert.Equal(t, 2, all.TotalPage)
	assert.Len(t, all.Bookings, 2)

	got, err := f.svc.Get(context.Background(), byRoom[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, failure.ErrNotFound))
}

func TestBookingService_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := eventMocks.NewMockPublisher(ctrl)

	f := newFixture(t, publisher)
	roomID := f.room(t, "Orchid")

	var published []events.Type

	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, batch ...events.Event) {
			for _, e := range batch {
				assert.Equal(t, roomID, e.Key)
				published = append(published, e.Type)
			}
		}).
		Times(3)

	booking, err := f.svc.Create(userCtx("u1"), request(roomID, instant(10, 0), instant(11, 0)))
	require.NoError(t, err)

	purpose := "Standup"
	_, err = f.svc.Update(userCtx("u1"), dto.UpdateBookingRequest{Purpose: &purpose}, booking.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(userCtx("u1"), booking.ID))

	assert.Equal(t, []events.Type{events.BookingCreated, events.BookingUpdated, events.BookingDeleted}, published)
}
