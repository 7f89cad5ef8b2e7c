package repository_test

import (
	"context"
	"errors"
	"roombook/internal/domains/room/model"
	"roombook/internal/domains/room/repository"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo repository.Room, rooms ...model.Room) {
	t.Helper()

	for _, room := range rooms {
		require.NoError(t, repo.Insert(context.Background(), room))
	}
}

func newRoom(id, name, location string, capacity int) model.Room {
	return model.Room{
		ID:        id,
		Name:      name,
		Location:  location,
		Capacity:  capacity,
		Amenities: []string{"projector"},
		Available: true,
	}
}

func TestMemory_InsertRejectsDuplicateName(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo, newRoom("a", "Orchid", "Floor 1", 4))

	err := repo.Insert(context.Background(), newRoom("b", "Orchid", "Floor 2", 8))

	assert.True(t, errors.Is(err, failure.ErrDuplicate))
}

func TestMemory_GetMissingReturnsZero(t *testing.T) {
	repo := repository.NewMemory()

	room, err := repo.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, room.ID)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo, newRoom("a", "Orchid", "Floor 1", 4))

	room, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)

	room.Amenities[0] = "whiteboard"

	again, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "projector", again.Amenities[0])
}

func TestMemory_GetAllFiltersSortsAndPaginates(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo,
		newRoom("a", "Orchid", "Floor 1", 4),
		newRoom("b", "Lotus", "Floor 1", 12),
		newRoom("c", "Jasmine", "Floor 2", 8),
	)
	require.NoError(t, repo.SetAvailability(context.Background(), "c", false))

	available := true

	tests := []struct {
		name   string
		params gDto.QueryParams
		filter model.Filter
		want   []string
	}{
		{
			name:   "by name ascending",
			params: gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc},
			want:   []string{"c", "b", "a"},
		},
		{
			name:   "by capacity descending",
			params: gDto.QueryParams{SortBy: model.FieldCapacity, SortDir: gDto.SortDirDesc},
			want:   []string{"b", "c", "a"},
		},
		{
			name:   "location filter is case insensitive",
			params: gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc},
			filter: model.Filter{Location: "floor 1"},
			want:   []string{"b", "a"},
		},
		{
			name:   "available only",
			params: gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc},
			filter: model.Filter{Available: &available},
			want:   []string{"b", "a"},
		},
		{
			name:   "second page",
			params: gDto.QueryParams{Page: 2, Limit: 2, SortBy: model.FieldName, SortDir: gDto.SortDirAsc},
			want:   []string{"a"},
		},
		{
			name:   "page past the end",
			params: gDto.QueryParams{Page: 5, Limit: 2, SortBy: model.FieldName, SortDir: gDto.SortDirAsc},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := repo.GetAll(context.Background(), tt.params, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(rooms))
			for _, room := range rooms {
				ids = append(ids, room.ID)
			}

			assert.Equal(t, tt.want, ids)

			total, err := repo.Count(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, total, len(rooms))
		})
	}
}

func TestMemory_ListAfterWalksById(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo,
		newRoom("c", "Jasmine", "Floor 2", 8),
		newRoom("a", "Orchid", "Floor 1", 4),
		newRoom("b", "Lotus", "Floor 1", 12),
	)

	first, err := repo.ListAfter(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].ID)
	assert.Equal(t, "b", first[1].ID)

	rest, err := repo.ListAfter(context.Background(), first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].ID)
}

func TestMemory_UpdateKeepsAvailability(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo, newRoom("a", "Orchid", "Floor 1", 4), newRoom("b", "Lotus", "Floor 1", 12))
	require.NoError(t, repo.SetAvailability(context.Background(), "a", false))

	updated := newRoom("a", "Orchid Hall", "Floor 3", 20)
	updated.Available = true
	require.NoError(t, repo.Update(context.Background(), updated))

	room, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Orchid Hall", room.Name)
	assert.Equal(t, 20, room.Capacity)
	assert.False(t, room.Available)

	err = repo.Update(context.Background(), newRoom("a", "Lotus", "Floor 3", 20))
	assert.True(t, errors.Is(err, failure.ErrDuplicate))
}

func TestMemory_Delete(t *testing.T) {
	repo := repository.NewMemory()
	seed(t, repo, newRoom("a", "Orchid", "Floor 1", 4))

	deleted, err := repo.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemory_CancelledContext(t *testing.T) {
	repo := repository.NewMemory()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "a")

	assert.True(t, errors.Is(err, failure.ErrStoreUnavailable))
}
