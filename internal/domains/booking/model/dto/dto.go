package dto

import (
	"fmt"
	"roombook/internal/domains/booking/model"
	"roombook/shared"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	gModel "roombook/shared/model"
	"roombook/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID      string `json:"room_id"      validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time"   validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string `json:"end_time"     validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Purpose     string `json:"purpose"      validate:"omitempty,max=200"`
}

func (c *CreateBookingRequest) ToModel(user string, now time.Time) (model.Booking, error) {
	date, start, end, err := parseWindow(c.BookingDate, c.StartTime, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	purpose := strings.TrimSpace(c.Purpose)
	if purpose == constant.Empty {
		purpose = model.DefaultPurpose
	}

	return model.Booking{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		UserID:      user,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Purpose:     purpose,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	RoomID      *string `json:"room_id"      validate:"omitempty,uuid"`
	BookingDate *string `json:"booking_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     *string `json:"end_time"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Purpose     *string `json:"purpose"      validate:"omitempty,max=200"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.RoomID == nil && u.BookingDate == nil && u.StartTime == nil && u.EndTime == nil && u.Purpose == nil
}

// MovesWindow reports whether the patch touches the room, the date or the times.
func (u *UpdateBookingRequest) MovesWindow() bool {
	return u.RoomID != nil || u.BookingDate != nil || u.StartTime != nil || u.EndTime != nil
}

// Apply merges the patch into booking. Owner and creation metadata are kept.
func (u *UpdateBookingRequest) Apply(booking model.Booking, user string, now time.Time) (model.Booking, error) {
	if u.RoomID != nil {
		booking.RoomID = *u.RoomID
	}

	if u.BookingDate != nil {
		date, err := timezone.Parse(constant.DayFormat, *u.BookingDate)
		if err != nil {
			return booking, fmt.Errorf("invalid booking_date: %w", err)
		}

		booking.BookingDate = date
	}

	if u.StartTime != nil {
		start, err := time.Parse(constant.InstantFormat, *u.StartTime)
		if err != nil {
			return booking, fmt.Errorf("invalid start_time: %w", err)
		}

		booking.StartTime = start
	}

	if u.EndTime != nil {
		end, err := time.Parse(constant.InstantFormat, *u.EndTime)
		if err != nil {
			return booking, fmt.Errorf("invalid end_time: %w", err)
		}

		booking.EndTime = end
	}

	if u.Purpose != nil {
		booking.Purpose = strings.TrimSpace(*u.Purpose)
		if booking.Purpose == constant.Empty {
			booking.Purpose = model.DefaultPurpose
		}
	}

	booking.ModifiedAt = now
	booking.ModifiedBy = user

	return booking, nil
}

type BookingResponse struct {
	ID          string `json:"id"`
	RoomID      string `json:"room_id"`
	UserID      string `json:"user_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Purpose     string `json:"purpose"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.BookingDate = model.BookingDate.Format(constant.DayFormat)
	r.StartTime = timezone.Format(model.StartTime, constant.InstantFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.InstantFormat)
	r.Purpose = model.Purpose
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

// RoomBookingsResponse lists a room's bookings next to the room's current availability.
type RoomBookingsResponse struct {
	Bookings    []BookingResponse `json:"bookings"`
	IsAvailable bool              `json:"is_available"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = FromModels(models)
}

func parseWindow(day, startTime, endTime string) (date, start, end time.Time, err error) {
	date, err = timezone.Parse(constant.DayFormat, day)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid booking_date: %w", err)
	}

	start, err = time.Parse(constant.InstantFormat, startTime)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid start_time: %w", err)
	}

	end, err = time.Parse(constant.InstantFormat, endTime)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid end_time: %w", err)
	}

	return date, start, end, nil
}
