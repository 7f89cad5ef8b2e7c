package model

import (
	"roombook/shared/interval"
	"roombook/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldUserID      = "user_id"
	FieldBookingDate = "booking_date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldPurpose     = "purpose"
)

const DefaultPurpose = "Meeting"

// Booking claims the half-open window [StartTime, EndTime) of one room.
type Booking struct {
	ID          string    `db:"id"`
	RoomID      string    `db:"room_id"`
	UserID      string    `db:"user_id"`
	BookingDate time.Time `db:"booking_date"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Purpose     string    `db:"purpose"`
	model.Metadata
}

func (b Booking) Overlaps(start, end time.Time) bool {
	return interval.Overlaps(b.StartTime, b.EndTime, start, end)
}

func (b Booking) ActiveAt(at time.Time) bool {
	return interval.Contains(b.StartTime, b.EndTime, at)
}

// ListFilter selects bookings by room or owner. Zero Page and Limit return everything.
type ListFilter struct {
	RoomID string
	UserID string
	Page   int
	Limit  int
}
