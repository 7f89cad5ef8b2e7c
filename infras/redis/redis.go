package redis

import (
	"context"
	"net"
	"roombook/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects to the primary Redis. It returns nil when caching is disabled or
// the server does not answer, and callers then run without a cache.
func New(config *config.Config) *goRedis.Client {
	if !config.Cache.Enable {
		log.Info().Msg("Redis disabled by configuration")

		return nil
	}

	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("host", primary.Host).Msg("Redis unreachable, continuing without cache")

		_ = client.Close()

		return nil
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Msg("Connected to Redis")

	return client
}
