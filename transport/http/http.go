package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"roombook/config"
	"roombook/shared/constant"
	"roombook/shared/failure"
	"roombook/transport/http/middleware"
	"roombook/transport/http/response"
	"roombook/transport/http/router"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	app    middleware.AppMiddleware
	auth   middleware.AuthRole
	state  atomic.Int32
	mux    *chi.Mux
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, auth middleware.AuthRole) *HTTP {
	h := &HTTP{
		Config: cfg,
		Router: r,
		app:    app,
		auth:   auth,
	}

	h.setupRoutes()
	h.state.Store(int32(ServerStateReady))

	return h
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Handler exposes the full middleware and route stack.
func (h *HTTP) Handler() http.Handler {
	return h.mux
}

// Serve listens until ctx is cancelled, then drains in two phases: during the
// grace period /health reports unavailable while requests are still served,
// and during the cleanup period in-flight requests are given time to finish.
func (h *HTTP) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting up HTTP server.")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdown := h.Config.Server.Shutdown

	if h.Config.Server.Env != constant.ServerEnvDevelopment {
		log.Info().Int64("seconds", shutdown.GracePeriodSeconds).Msg("Entering grace period.")
		h.state.Store(int32(ServerStateInGracePeriod))

		time.Sleep(time.Duration(shutdown.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdown.CleanupPeriodSeconds).Msg("Entering cleanup period.")
	h.state.Store(int32(ServerStateInCleanupPeriod))

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(shutdown.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(cleanupCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")

		return err
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")

	return nil
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID)
	h.mux.Use(chiMiddleware.RealIP)
	h.mux.Use(chiMiddleware.Recoverer)
	h.mux.Use(h.app.Tracing)
	h.mux.Use(h.app.Logger)
	h.mux.Use(h.app.CORS())
	h.mux.Use(h.app.RateLimit())

	h.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, failure.NotFound("route not found"))
	})
	h.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WithError(w, &failure.Failure{Code: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	h.mux.Get("/health", h.health)

	h.mux.Group(func(protected chi.Router) {
		protected.Use(h.auth.APIKey)
		protected.Use(h.auth.Auth)
		protected.Use(h.auth.RBAC)

		h.Router.SetupRoutes(protected)
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
