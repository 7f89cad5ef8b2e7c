package dto

import (
	"roombook/internal/domains/room/model"
	"roombook/shared"
	gDto "roombook/shared/dto"
	gModel "roombook/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name      string   `json:"name"      validate:"required,nonblank,max=100"`
	Location  string   `json:"location"  validate:"required,nonblank,max=100"`
	Capacity  int      `json:"capacity"  validate:"required,gte=1,lte=500"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,nonblank,max=100"`
}

func (c *CreateRoomRequest) ToModel(user string, now time.Time) model.Room {
	return model.Room{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(c.Name),
		Location:  strings.TrimSpace(c.Location),
		Capacity:  c.Capacity,
		Amenities: trimAll(c.Amenities),
		Available: true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name      *string   `json:"name"      validate:"omitempty,nonblank,max=100"`
	Location  *string   `json:"location"  validate:"omitempty,nonblank,max=100"`
	Capacity  *int      `json:"capacity"  validate:"omitempty,gte=1,lte=500"`
	Amenities *[]string `json:"amenities" validate:"omitempty,dive,nonblank,max=100"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.Name == nil && u.Location == nil && u.Capacity == nil && u.Amenities == nil
}

// Apply merges the patch into room. The available flag is never patched by callers.
func (u *UpdateRoomRequest) Apply(room model.Room, user string, now time.Time) model.Room {
	if u.Name != nil {
		room.Name = strings.TrimSpace(*u.Name)
	}

	if u.Location != nil {
		room.Location = strings.TrimSpace(*u.Location)
	}

	if u.Capacity != nil {
		room.Capacity = *u.Capacity
	}

	if u.Amenities != nil {
		room.Amenities = trimAll(*u.Amenities)
	}

	room.ModifiedAt = now
	room.ModifiedBy = user

	return room
}

type RoomResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	Available bool     `json:"available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Amenities = append([]string{}, model.Amenities...)
	r.Available = model.Available
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		trimmed = append(trimmed, strings.TrimSpace(v))
	}

	return trimmed
}
