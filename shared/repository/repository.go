// Package repository is a small query builder over sqlx for single-table entities.
// Columns come from the `db` tags of T, embedded structs included.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"roombook/infras/otel"
	"roombook/infras/postgres"
	"roombook/shared/constant"
	"roombook/shared/dto"
	"roombook/shared/logger"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	selectColumns string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns := dbColumns(reflect.TypeOf(zero))

	qualified := make([]string, len(columns))
	for i, col := range columns {
		qualified[i] = tableName + "." + col
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		selectColumns: strings.Join(qualified, ", "),
		InsertColumns: columns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// fail logs err and wraps it so storage faults surface as failure kinds.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, StoreError(err))
}

// Bound applies the configured query timeout unless ctx already carries a deadline.
func (repo *Repository[T]) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || repo.db.QueryTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, repo.db.QueryTimeout)
}

// WithTransaction runs fn inside a write transaction, committing only when fn returns nil.
func (repo *Repository[T]) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.scope(ctx, "WithTransaction")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return repo.fail(scope, "begin transaction", err)
	}

	defer func() {
		if err == nil {
			return
		}

		scope.TraceError(err)

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorWithStack(rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return repo.fail(scope, "commit transaction", err)
	}

	return nil
}

// queryOne prepares query on the read pool and scans a single row into dest.
func (repo *Repository[T]) queryOne(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args)
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	return repo.insert(ctx, tx, model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	if err := repo.queryOne(ctx, scope, query, args, &exist); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	var model T

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s", repo.selectColumns, repo.table, where)

	err := repo.queryOne(ctx, scope, query, args, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

// GetAll pages through matching rows. Ordering always ends on the primary key so pages are stable.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	where, args := whereClause(filter)

	var clauses []string
	if where != "" {
		clauses = append(clauses, where)
	}

	if params.SortBy != "" && params.SortDir != "" {
		clauses = append(clauses, fmt.Sprintf("ORDER BY %s.%s %s, %s.%s ASC", repo.table, params.SortBy, params.SortDir, repo.table, repo.primaryColumn))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		clauses = append(clauses, "LIMIT :limit")

		if offset := params.Offset(); offset > 0 {
			args["offset"] = offset
			clauses = append(clauses, "OFFSET :offset")
		}
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s", repo.selectColumns, repo.table, strings.Join(clauses, " "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	var count int

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s", repo.table, repo.primaryColumn, repo.table, where)

	if err := repo.queryOne(ctx, scope, query, args, &count); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

// Delete removes every row matching filter and reports how many went.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "delete data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, fields)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	ctx, cancel := repo.Bound(ctx)
	defer cancel()

	return repo.update(ctx, repo.db.Write, fields, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, tx, fields, filter)
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return where, map[string]any{}
	}

	return "WHERE " + where, args
}

// dbColumns lists the db tags of t in field order, descending into embedded structs.
func dbColumns(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
