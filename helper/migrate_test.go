package helper

import (
	"net/url"
	"roombook/config"
	"roombook/migrations"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Host = "db.internal"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "booker"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Name = "roombook"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	parsed, err := url.Parse(databaseURL(cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/test_roombook", parsed.Path)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, defaultMigrationsTable, parsed.Query().Get("x-migrations-table"))

	cfg.DB.Postgres.MigrationTable = "roombook_migrations"

	parsed, err = url.Parse(databaseURL(cfg))
	require.NoError(t, err)
	assert.Equal(t, "roombook_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestEmbeddedMigrations(t *testing.T) {
	source, err := iofs.New(migrations.Postgres, migrationsDir)
	require.NoError(t, err)

	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := source.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}
