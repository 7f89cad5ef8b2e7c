package repository

import (
	"cmp"
	"context"
	"fmt"
	"roombook/internal/domains/booking/model"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"slices"
	"sync"
	"time"
)

// memoryRepository keeps bookings in process. Writers into a room hold that
// room's mutex for the whole check-and-write, so admission is atomic per room.
type memoryRepository struct {
	rooms Rooms

	mu       sync.RWMutex
	bookings map[string]model.Booking

	locksMu   sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewMemory(rooms Rooms) Booking {
	return &memoryRepository{
		rooms:     rooms,
		bookings:  map[string]model.Booking{},
		roomLocks: map[string]*sync.Mutex{},
	}
}

func (r *memoryRepository) roomLock(roomID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.roomLocks[roomID] = lock
	}

	return lock
}

// lockRooms locks every distinct room in id order and returns the matching unlock.
func (r *memoryRepository) lockRooms(roomIDs ...string) func() {
	ids := slices.Compact(slices.Sorted(slices.Values(roomIDs)))

	locks := make([]*sync.Mutex, len(ids))
	for i, id := range ids {
		locks[i] = r.roomLock(id)
		locks[i].Lock()
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (r *memoryRepository) ensureRoom(ctx context.Context, roomID string) error {
	room, err := r.rooms.Get(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	return nil
}

// taken must be called with the room lock held.
func (r *memoryRepository) taken(booking model.Booking) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, other := range r.bookings {
		if id != booking.ID && other.RoomID == booking.RoomID && other.Overlaps(booking.StartTime, booking.EndTime) {
			return true
		}
	}

	return false
}

func (r *memoryRepository) Insert(ctx context.Context, booking model.Booking) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	if err := r.ensureRoom(ctx, booking.RoomID); err != nil {
		return err
	}

	unlock := r.lockRooms(booking.RoomID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	if r.taken(booking) {
		return failure.Conflict("room is already booked for the requested time") //nolint:wrapcheck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; ok {
		return failure.Duplicate("booking id already exists") //nolint:wrapcheck
	}

	r.bookings[booking.ID] = booking

	return nil
}

func (r *memoryRepository) Update(ctx context.Context, booking model.Booking) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	if err := r.ensureRoom(ctx, booking.RoomID); err != nil {
		return err
	}

	for {
		current, ok := r.get(booking.ID)
		if !ok {
			return failure.NotFound("booking not found") //nolint:wrapcheck
		}

		unlock := r.lockRooms(current.RoomID, booking.RoomID)

		// The booking may have moved to another room while we waited for the locks.
		if latest, ok := r.get(booking.ID); ok && latest.RoomID != current.RoomID {
			unlock()

			continue
		}

		err := r.update(ctx, booking)
		unlock()

		return err
	}
}

// update must be called with the locks of the old and new room held.
func (r *memoryRepository) update(ctx context.Context, booking model.Booking) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	if r.taken(booking) {
		return failure.Conflict("room is already booked for the requested time") //nolint:wrapcheck
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[booking.ID]
	if !ok {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	current.RoomID = booking.RoomID
	current.BookingDate = booking.BookingDate
	current.StartTime = booking.StartTime
	current.EndTime = booking.EndTime
	current.Purpose = booking.Purpose
	current.ModifiedAt = booking.ModifiedAt
	current.ModifiedBy = booking.ModifiedBy

	r.bookings[booking.ID] = current

	return nil
}

func (r *memoryRepository) get(id string) (model.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]

	return booking, ok
}

func (r *memoryRepository) Get(ctx context.Context, id string) (model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, failure.StoreUnavailable(err)
	}

	booking, _ := r.get(id)

	return booking, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return false, nil
	}

	delete(r.bookings, id)

	return true, nil
}

func (r *memoryRepository) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.StoreUnavailable(err)
	}

	return r.collect(func(b model.Booking) bool {
		return b.RoomID == roomID && b.ID != excludeID && b.Overlaps(start, end)
	}, byStart), nil
}

func (r *memoryRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.StoreUnavailable(err)
	}

	bookings := r.collect(matches(filter), byStart)

	if filter.Limit <= 0 {
		return bookings, nil
	}

	offset := gDto.QueryParams{Page: filter.Page, Limit: filter.Limit}.Offset()

	if offset >= len(bookings) {
		return []model.Booking{}, nil
	}

	return bookings[offset:min(offset+filter.Limit, len(bookings))], nil
}

func (r *memoryRepository) Count(ctx context.Context, filter model.ListFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, failure.StoreUnavailable(err)
	}

	return len(r.collect(matches(filter), nil)), nil
}

func (r *memoryRepository) ExistsActiveAt(ctx context.Context, roomID string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, failure.StoreUnavailable(err)
	}

	return r.exists(func(b model.Booking) bool {
		return b.RoomID == roomID && b.ActiveAt(at)
	}), nil
}

func (r *memoryRepository) ExistsEndingAfter(ctx context.Context, roomID string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, failure.StoreUnavailable(err)
	}

	return r.exists(func(b model.Booking) bool {
		return b.RoomID == roomID && b.EndTime.After(at)
	}), nil
}

func (r *memoryRepository) ListEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.StoreUnavailable(err)
	}

	bookings := r.collect(func(b model.Booking) bool {
		return b.EndTime.Before(cutoff)
	}, func(a, b model.Booking) int {
		return cmp.Or(a.EndTime.Compare(b.EndTime), cmp.Compare(a.ID, b.ID))
	})

	if limit > 0 && len(bookings) > limit {
		bookings = bookings[:limit]
	}

	return bookings, nil
}

func (r *memoryRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64

	for _, id := range ids {
		if _, ok := r.bookings[id]; ok {
			delete(r.bookings, id)
			deleted++
		}
	}

	return deleted, nil
}

func (r *memoryRepository) collect(keep func(model.Booking) bool, order func(a, b model.Booking) int) []model.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := []model.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			bookings = append(bookings, b)
		}
	}

	if order != nil {
		slices.SortFunc(bookings, order)
	}

	return bookings
}

func (r *memoryRepository) exists(match func(model.Booking) bool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if match(b) {
			return true
		}
	}

	return false
}

func matches(filter model.ListFilter) func(model.Booking) bool {
	return func(b model.Booking) bool {
		if filter.RoomID != constant.Empty && b.RoomID != filter.RoomID {
			return false
		}

		return filter.UserID == constant.Empty || b.UserID == filter.UserID
	}
}

func byStart(a, b model.Booking) int {
	return cmp.Or(a.StartTime.Compare(b.StartTime), cmp.Compare(a.ID, b.ID))
}
