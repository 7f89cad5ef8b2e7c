package logger

import (
	"net/http"
	"os"
	"roombook/config"
	"roombook/shared/constant"
	"roombook/shared/failure"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the level from cfg and, outside development, switches to JSON
// lines tagged with the service name so log shippers can parse them.
func Configure(cfg *config.Config) {
	SetLogLevel(cfg)

	if cfg.Server.Env == constant.ServerEnvDevelopment || cfg.Server.Env == "" {
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// Failure starts an event for err at a level matching who is at fault:
// warn for rejected requests, error for everything else.
func Failure(err error) *zerolog.Event {
	if failure.GetCode(err) < http.StatusInternalServerError {
		return log.Warn().Err(err)
	}

	return log.Error().Err(err)
}

// Job returns a logger tagged with the name of a scheduled job.
func Job(name string) zerolog.Logger {
	return log.With().Str("job", name).Logger()
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
