package model

import (
	"roombook/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID        = "id"
	FieldName      = "name"
	FieldLocation  = "location"
	FieldCapacity  = "capacity"
	FieldAmenities = "amenities"
	FieldAvailable = "available"
)

const (
	MinCapacity = 1
	MaxCapacity = 500
)

// Room is a bookable space. Available is derived from the booking set and may lag behind it.
type Room struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Location  string         `db:"location"`
	Capacity  int            `db:"capacity"`
	Amenities pq.StringArray `db:"amenities"`
	Available bool           `db:"available"`
	model.Metadata
}

// Filter narrows room listings. Empty fields match everything.
type Filter struct {
	Name      string
	Location  string
	Available *bool
}
