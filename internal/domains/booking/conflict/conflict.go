// Package conflict decides whether a booking window can be admitted into a room.
//
// The decision is a read: it is only safe when the store repeats it atomically
// while writing, which every booking repository does.
package conflict

import (
	"context"
	"fmt"
	"roombook/infras/otel"
	"roombook/internal/domains/booking/model"
	"roombook/shared/constant"
	"roombook/shared/failure"
	"roombook/shared/interval"
	"time"
)

type Checker interface {
	// IsAdmissible reports whether [start, end) is free in roomID, ignoring excludeID.
	// An unknown room has no bookings and is therefore always admissible.
	IsAdmissible(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error)
	// Conflicts lists the bookings that make the window inadmissible.
	Conflicts(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error)
}

// Store is the slice of the booking repository the checker reads.
type Store interface {
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error)
}

type checker struct {
	store Store
	otel  otel.Otel
}

func New(store Store, otel otel.Otel) Checker {
	return &checker{
		store: store,
		otel:  otel,
	}
}

func (c *checker) IsAdmissible(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	conflicts, err := c.Conflicts(ctx, roomID, start, end, excludeID)
	if err != nil {
		return false, err
	}

	return len(conflicts) == 0, nil
}

func (c *checker) Conflicts(ctx context.Context, roomID string, start, end time.Time, excludeID string) (res []model.Booking, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Conflict.Conflicts")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !interval.Valid(start, end) {
		return nil, failure.BadRequestFromString("start_time must be before end_time") //nolint:wrapcheck
	}

	candidates, err := c.store.FindOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	res = []model.Booking{}
	for _, b := range candidates {
		if excludeID != constant.Empty && b.ID == excludeID {
			continue
		}

		if b.RoomID == roomID && interval.Overlaps(b.StartTime, b.EndTime, start, end) {
			res = append(res, b)
		}
	}

	return res, nil
}
