package repository

import (
	"context"
	"fmt"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/internal/domains/room/model"
	"roombook/shared"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	gRepo "roombook/shared/repository"

	"github.com/google/uuid"
)

type postgresRepository struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Room {
	return &postgresRepository{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *postgresRepository) Get(ctx context.Context, id string) (model.Room, error) {
	if uuid.Validate(id) != nil {
		return model.Room{}, nil
	}

	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (model.Room, error) {
	return r.Repository.Get(ctx, shared.FilterByID(name, model.FieldName, model.TableName)) //nolint:wrapcheck
}

func (r *postgresRepository) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Room, error) {
	return r.Repository.GetAll(ctx, params, toFilterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresRepository) Count(ctx context.Context, filter model.Filter) (int, error) {
	return r.Repository.Count(ctx, toFilterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresRepository) ListAfter(ctx context.Context, afterID string, limit int) ([]model.Room, error) {
	filter := gDto.FilterGroup{}
	if afterID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "after_id",
			Field:    model.FieldID,
			Value:    afterID,
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldID,
		SortDir: gDto.SortDirAsc,
	}

	return r.Repository.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *postgresRepository) Update(ctx context.Context, room model.Room) error {
	fields := map[string]any{
		model.FieldName:          room.Name,
		model.FieldLocation:      room.Location,
		model.FieldCapacity:      room.Capacity,
		model.FieldAmenities:     room.Amenities,
		constant.FieldModifiedAt: room.ModifiedAt,
		constant.FieldModifiedBy: room.ModifiedBy,
	}

	if err := r.Repository.Update(ctx, fields, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

func (r *postgresRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	fields := map[string]any{model.FieldAvailable: available}

	if err := r.Repository.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to set room availability: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	affected, err := r.Repository.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return false, fmt.Errorf("failed to delete room: %w", err)
	}

	return affected > 0, nil
}

func toFilterGroup(filter model.Filter) gDto.FilterGroup {
	group := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Value:    filter.Name,
				Operator: gDto.FilterOperatorLike,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldLocation,
				Value:    filter.Location,
				Operator: gDto.FilterOperatorLike,
				Table:    model.TableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if filter.Available != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldAvailable,
			Value:    *filter.Available,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return group
}
