package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/internal/domains/booking/model"
	"roombook/shared"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	gRepo "roombook/shared/repository"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	lockRoomQuery    = "SELECT id FROM rooms WHERE id = $1 FOR UPDATE"
	lockBookingQuery = "SELECT room_id FROM bookings WHERE id = $1 FOR UPDATE"
	overlapQuery     = "SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = $1 AND start_time < $3 AND $2 < end_time AND id <> $4)"
)

type postgresRepository struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Booking {
	return &postgresRepository{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *postgresRepository) Insert(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if uuid.Validate(booking.RoomID) != nil {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	ctx, cancel := r.Bound(ctx)
	defer cancel()

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockRooms(ctx, tx, booking.RoomID); err != nil {
			return err
		}

		if err := r.ensureFree(ctx, tx, booking); err != nil {
			return err
		}

		return r.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})
}

func (r *postgresRepository) Update(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if uuid.Validate(booking.RoomID) != nil {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	ctx, cancel := r.Bound(ctx)
	defer cancel()

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var currentRoomID string

		err := tx.GetContext(ctx, &currentRoomID, lockBookingQuery, booking.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return failure.NotFound("booking not found") //nolint:wrapcheck
		}

		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", gRepo.StoreError(err))
		}

		if err := r.lockRooms(ctx, tx, currentRoomID, booking.RoomID); err != nil {
			return err
		}

		if err := r.ensureFree(ctx, tx, booking); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldRoomID:        booking.RoomID,
			model.FieldBookingDate:   booking.BookingDate,
			model.FieldStartTime:     booking.StartTime,
			model.FieldEndTime:       booking.EndTime,
			model.FieldPurpose:       booking.Purpose,
			constant.FieldModifiedAt: booking.ModifiedAt,
			constant.FieldModifiedBy: booking.ModifiedBy,
		}

		return r.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
}

// lockRooms takes the row lock of every room in id order. Holding it serialises
// all admissions into that room until the transaction ends.
func (r *postgresRepository) lockRooms(ctx context.Context, tx *sqlx.Tx, roomIDs ...string) error {
	ids := slices.Compact(slices.Sorted(slices.Values(roomIDs)))

	for _, id := range ids {
		var locked string

		err := tx.GetContext(ctx, &locked, lockRoomQuery, id)
		if errors.Is(err, sql.ErrNoRows) {
			return failure.NotFound("room not found") //nolint:wrapcheck
		}

		if err != nil {
			return fmt.Errorf("failed to lock room: %w", gRepo.StoreError(err))
		}
	}

	return nil
}

func (r *postgresRepository) ensureFree(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	var taken bool

	err := tx.GetContext(ctx, &taken, overlapQuery, booking.RoomID, booking.StartTime, booking.EndTime, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping bookings: %w", gRepo.StoreError(err))
	}

	if taken {
		return failure.Conflict("room is already booked for the requested time") //nolint:wrapcheck
	}

	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (model.Booking, error) {
	if uuid.Validate(id) != nil {
		return model.Booking{}, nil
	}

	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *postgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	affected, err := r.Repository.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return false, fmt.Errorf("failed to delete booking: %w", err)
	}

	return affected > 0, nil
}

func (r *postgresRepository) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]model.Booking, error) {
	if uuid.Validate(roomID) != nil {
		return []model.Booking{}, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			roomFilter(roomID),
			gDto.Filter{ArgName: "window_end", Field: model.FieldStartTime, Value: end, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: "window_start", Field: model.FieldEndTime, Value: start, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}

	if uuid.Validate(excludeID) == nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return r.GetAll(ctx, byStartTime(0, 0), filter) //nolint:wrapcheck
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Booking, error) {
	if filter.RoomID != constant.Empty && uuid.Validate(filter.RoomID) != nil {
		return []model.Booking{}, nil
	}

	return r.GetAll(ctx, byStartTime(filter.Page, filter.Limit), listFilterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresRepository) Count(ctx context.Context, filter model.ListFilter) (int, error) {
	if filter.RoomID != constant.Empty && uuid.Validate(filter.RoomID) != nil {
		return 0, nil
	}

	return r.Repository.Count(ctx, listFilterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresRepository) ExistsActiveAt(ctx context.Context, roomID string, at time.Time) (bool, error) {
	if uuid.Validate(roomID) != nil {
		return false, nil
	}

	return r.Exist(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			roomFilter(roomID),
			gDto.Filter{ArgName: "at_start", Field: model.FieldStartTime, Value: at, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.Filter{ArgName: "at_end", Field: model.FieldEndTime, Value: at, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	})
}

func (r *postgresRepository) ExistsEndingAfter(ctx context.Context, roomID string, at time.Time) (bool, error) {
	if uuid.Validate(roomID) != nil {
		return false, nil
	}

	return r.Exist(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			roomFilter(roomID),
			gDto.Filter{ArgName: "at_end", Field: model.FieldEndTime, Value: at, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	})
}

func (r *postgresRepository) ListEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldEndTime,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			gDto.Filter{ArgName: "cutoff", Field: model.FieldEndTime, Value: cutoff, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	})
}

func (r *postgresRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	affected, err := r.Repository.Delete(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: ids, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}

	return affected, nil
}

func roomFilter(roomID string) gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldRoomID,
		Value:    roomID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}
}

func byStartTime(page, limit int) gDto.QueryParams {
	return gDto.QueryParams{
		Page:    page,
		Limit:   limit,
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}
}

func listFilterGroup(filter model.ListFilter) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if filter.RoomID != constant.Empty {
		group.Filters = append(group.Filters, roomFilter(filter.RoomID))
	}

	if filter.UserID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Value:    filter.UserID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return group
}
