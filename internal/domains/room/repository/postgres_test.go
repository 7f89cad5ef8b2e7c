package repository_test

import (
	"context"
	"errors"
	otelMocks "roombook/infras/otel/mocks"
	"roombook/infras/postgres"
	"roombook/internal/domains/room/repository"
	"roombook/shared/failure"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgres(t *testing.T) (repository.Room, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	conn := sqlx.NewDb(db, postgres.DriverName)

	return repository.NewPostgres(&postgres.Connection{Read: conn, Write: conn}, otelMocks.NewOtel()), mock
}

func TestPostgres_InsertDuplicateName(t *testing.T) {
	repo, mock := newPostgres(t)

	mock.ExpectExec("INSERT INTO rooms").
		WillReturnError(&pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "rooms_name_key"`})

	err := repo.Insert(context.Background(), newRoom(uuid.NewString(), "Orchid", "Floor 1", 4))

	assert.True(t, errors.Is(err, failure.ErrDuplicate))
}

func TestPostgres_MalformedIDSkipsStore(t *testing.T) {
	repo, _ := newPostgres(t)

	room, err := repo.Get(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, room.ID)

	deleted, err := repo.Delete(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostgres_SetAvailability(t *testing.T) {
	repo, mock := newPostgres(t)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE rooms SET available = \$1 WHERE`).
		WithArgs(false, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetAvailability(context.Background(), id, false))
}

func TestPostgres_DeleteReportsAffectedRows(t *testing.T) {
	repo, mock := newPostgres(t)
	id := uuid.NewString()

	mock.ExpectExec(`DELETE FROM rooms WHERE`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, deleted)
}
