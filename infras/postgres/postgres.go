package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"roombook/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// DriverName is the database/sql driver registered by lib/pq.
const DriverName = "postgres"

const (
	maxIdleConns    = 10
	maxOpenConns    = 10
	connMaxLifetime = 30 * time.Minute
)

// Connection pairs the read replica pool with the primary pool. Both may point
// at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
	// QueryTimeout bounds store calls whose context has no deadline of its own.
	QueryTimeout time.Duration
}

// New connects both pools, retrying as configured. It returns nil when another
// store driver is configured and exits the process when a pool stays unreachable.
func New(cfg *config.Config) *Connection {
	if cfg.DB.Driver != "" && cfg.DB.Driver != config.DriverPostgres {
		log.Info().Str("driver", cfg.DB.Driver).Msg("Postgres disabled for this store driver")

		return nil
	}

	pg := cfg.DB.Postgres

	return &Connection{
		Read:         connect("read", DSN(pg.Read, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
		Write:        connect("write", DSN(pg.Write, pg.Prefix, nil), pg.MaxRetry, pg.RetryWaitTime),
		QueryTimeout: time.Duration(pg.QueryTimeoutMS) * time.Millisecond,
	}
}

// DSN renders endpoint as a postgres:// URL. Credentials are escaped, and
// params are added to the query next to sslmode and timezone.
func DSN(endpoint config.PostgresEndpoint, prefix string, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}

	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}).String()
}

// Close releases both pools.
func (c *Connection) Close() {
	if c == nil {
		return
	}

	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("name", name).Msg("Failed closing database connection")
		}
	}
}

func connect(name, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().Str("name", name).Logger()

	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect(DriverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConns)
			db.SetMaxOpenConns(maxOpenConns)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Msg("Could not connect to database")

	return nil
}
