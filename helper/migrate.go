package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"roombook/config"
	"roombook/infras/postgres"
	"roombook/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	migrationsDir          = "postgres"
	defaultMigrationsTable = "schema_migrations"
)

// Action is a migrate subcommand.
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionStepUp  Action = "step-up"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

// ErrUnknownAction is returned by Run for anything outside the Action constants.
var ErrUnknownAction = errors.New("unknown migration action")

func databaseURL(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	table := pg.MigrationTable
	if table == "" {
		table = defaultMigrationsTable
	}

	return postgres.DSN(pg.Write, pg.Prefix, url.Values{"x-migrations-table": {table}})
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("error reading embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, databaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Run applies action to the write database.
func Run(cfg *config.Config, action Action) error {
	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed closing migrate instance")
		}
	}()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	case ActionVersion:
		version, dirty, verErr := mig.Version()
		if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading schema version: %w", verErr)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed")

	return nil
}

// Up applies every pending migration.
func Up(cfg *config.Config) error {
	return Run(cfg, ActionUp)
}
