package repository

import (
	"cmp"
	"context"
	"roombook/internal/domains/room/model"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"slices"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	rooms map[string]model.Room
}

// NewMemory returns a process-local room store.
func NewMemory() Room {
	return &memoryRepository{
		rooms: map[string]model.Room{},
	}
}

func (r *memoryRepository) Insert(ctx context.Context, room model.Room) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return failure.Duplicate("room id already exists")
	}

	if r.nameTaken(room.Name, room.ID) {
		return failure.Duplicate("room name already exists")
	}

	r.rooms[room.ID] = clone(room)

	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, failure.StoreUnavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return clone(r.rooms[id]), nil
}

func (r *memoryRepository) GetByName(ctx context.Context, name string) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, failure.StoreUnavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.Name == name {
			return clone(room), nil
		}
	}

	return model.Room{}, nil
}

func (r *memoryRepository) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.StoreUnavailable(err)
	}

	rooms := r.filtered(filter)

	desc := params.SortDir == gDto.SortDirDesc
	slices.SortStableFunc(rooms, func(a, b model.Room) int {
		c := compareBy(params.SortBy, a, b)
		if desc {
			c = -c
		}

		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	})

	return paginate(rooms, params), nil
}

func (r *memoryRepository) Count(ctx context.Context, filter model.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, failure.StoreUnavailable(err)
	}

	return len(r.filtered(filter)), nil
}

func (r *memoryRepository) ListAfter(ctx context.Context, afterID string, limit int) ([]model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure.StoreUnavailable(err)
	}

	r.mu.RLock()
	rooms := make([]model.Room, 0, len(r.rooms))
	for id, room := range r.rooms {
		if afterID == constant.Empty || id > afterID {
			rooms = append(rooms, clone(room))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(rooms, func(a, b model.Room) int {
		return cmp.Compare(a.ID, b.ID)
	})

	if limit > 0 && len(rooms) > limit {
		rooms = rooms[:limit]
	}

	return rooms, nil
}

func (r *memoryRepository) Update(ctx context.Context, room model.Room) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rooms[room.ID]
	if !ok {
		return nil
	}

	if r.nameTaken(room.Name, room.ID) {
		return failure.Duplicate("room name already exists")
	}

	current.Name = room.Name
	current.Location = room.Location
	current.Capacity = room.Capacity
	current.Amenities = room.Amenities
	current.ModifiedAt = room.ModifiedAt
	current.ModifiedBy = room.ModifiedBy

	r.rooms[room.ID] = clone(current)

	return nil
}

func (r *memoryRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := ctx.Err(); err != nil {
		return failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[id]; ok {
		room.Available = available
		r.rooms[id] = room
	}

	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, failure.StoreUnavailable(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return false, nil
	}

	delete(r.rooms, id)

	return true, nil
}

// nameTaken must be called with mu held.
func (r *memoryRepository) nameTaken(name, exceptID string) bool {
	for id, room := range r.rooms {
		if id != exceptID && room.Name == name {
			return true
		}
	}

	return false
}

func (r *memoryRepository) filtered(filter model.Filter) []model.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if !containsFold(room.Name, filter.Name) || !containsFold(room.Location, filter.Location) {
			continue
		}

		if filter.Available != nil && room.Available != *filter.Available {
			continue
		}

		rooms = append(rooms, clone(room))
	}

	return rooms
}

func compareBy(field string, a, b model.Room) int {
	switch field {
	case model.FieldName:
		return cmp.Compare(a.Name, b.Name)
	case model.FieldLocation:
		return cmp.Compare(a.Location, b.Location)
	case model.FieldCapacity:
		return cmp.Compare(a.Capacity, b.Capacity)
	case constant.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}

func paginate(rooms []model.Room, params gDto.QueryParams) []model.Room {
	if params.Limit <= 0 {
		return rooms
	}

	offset := params.Offset()
	if offset >= len(rooms) {
		return []model.Room{}
	}

	return rooms[offset:min(offset+params.Limit, len(rooms))]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func clone(room model.Room) model.Room {
	if room.Amenities != nil {
		room.Amenities = slices.Clone(room.Amenities)
	}

	return room
}
