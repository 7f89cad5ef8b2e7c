package validator_test

import (
	"errors"
	"roombook/shared/failure"
	"roombook/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomPayload struct {
	Name      string   `json:"name"      validate:"required,nonblank,max=100"`
	Capacity  int      `json:"capacity"  validate:"gte=1,lte=500"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,nonblank"`
}

type bookingPayload struct {
	RoomID      string `json:"room_id"      validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    roomPayload
		wantMsg string
	}{
		{
			name: "valid room",
			data: roomPayload{Name: "Orion", Capacity: 4, Amenities: []string{"projector", "whiteboard"}},
		},
		{
			name:    "missing name",
			data:    roomPayload{Capacity: 4},
			wantMsg: "name is required",
		},
		{
			name:    "blank name",
			data:    roomPayload{Name: "   ", Capacity: 4},
			wantMsg: "name must not be blank",
		},
		{
			name:    "capacity below range",
			data:    roomPayload{Name: "Orion", Capacity: 0},
			wantMsg: "capacity must be greater than or equal to 1",
		},
		{
			name:    "capacity above range",
			data:    roomPayload{Name: "Orion", Capacity: 501},
			wantMsg: "capacity must be less than or equal to 500",
		},
		{
			name:    "blank amenity",
			data:    roomPayload{Name: "Orion", Capacity: 4, Amenities: []string{"tv", " "}},
			wantMsg: "amenities[1] must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.Is(err, failure.ErrValidation))
		})
	}
}

func TestValidateStruct_Formats(t *testing.T) {
	valid := bookingPayload{RoomID: "6f1c2f0e-8a0b-4a59-9d0a-0f8e2f5d7c11", BookingDate: "2025-06-01"}
	assert.NoError(t, validator.ValidateStruct(&valid))

	badDate := bookingPayload{RoomID: valid.RoomID, BookingDate: "01/06/2025"}
	err := validator.ValidateStruct(&badDate)
	require.Error(t, err)
	assert.Equal(t, "booking_date must match the format 2006-01-02", err.Error())

	badID := bookingPayload{RoomID: "room-1", BookingDate: valid.BookingDate}
	err = validator.ValidateStruct(&badID)
	require.Error(t, err)
	assert.Equal(t, "room_id must be a valid UUID", err.Error())
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required", expectError: false},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "nonblank text", field: "Meeting", tag: "nonblank", expectError: false},
		{name: "whitespace only", field: "\t ", tag: "nonblank", expectError: true},
		{name: "number in range", field: 25, tag: "gte=1,lte=500", expectError: false},
		{name: "number out of range", field: 600, tag: "gte=1,lte=500", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"name":"Orion","capacity":8,"amenities":["tv"]}`, expectError: false},
		{name: "invalid capacity", jsonBody: `{"name":"Orion","capacity":0}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"name":"Orion","capacity":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
		{name: "no body", jsonBody: ``, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data roomPayload
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, failure.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	type window struct {
		StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
		EndTime   string `json:"end_time"   validate:"required"`
	}

	err := validator.ValidateStruct(&window{StartTime: "09:00"})

	require.Error(t, err)
	assert.Equal(t,
		"start_time must match the format RFC3339 (2006-01-02T15:04:05Z07:00); end_time is required",
		err.Error(),
	)
}
