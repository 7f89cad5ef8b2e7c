// Package maintenance exposes the background jobs for on-demand runs by operators.
package maintenance

import (
	"net/http"
	"roombook/infras/otel"
	availability "roombook/internal/domains/availability/service"
	retention "roombook/internal/domains/retention/service"
	"roombook/shared/constant"
	"roombook/shared/logger"
	"roombook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	reconciler availability.Reconciler
	sweeper    retention.Sweeper
	otel       otel.Otel
}

func New(reconciler availability.Reconciler, sweeper retention.Sweeper, otel otel.Otel) Handler {
	return Handler{
		reconciler: reconciler,
		sweeper:    sweeper,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/maintenance/reconcile", handler.Reconcile)
	router.Delete("/bookings/purge", handler.Purge)
}

// Reconcile re-derives every room's available flag now.
// @Summary Reconcile room availability
// @Tags Maintenance
// @Produce json
// @Success 200 {object} response.Data[availability.Report]
// @Failure 503 {object} response.Error
// @Router /v1/maintenance/reconcile [post]
// @Security BearerAuth
func (handler *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reconcile")
	defer scope.End()

	report, err := handler.reconciler.Reconcile(ctx)
	if err != nil && report.Scanned == 0 {
		handler.fail(w, scope, err, "failed to reconcile room availability")

		return
	}

	if err != nil {
		// Partial pass: the report tells the caller which share failed.
		log.Warn().Err(err).Int("failed", report.Failed).Msg("room availability partially reconciled")
	}

	response.WithJSON(w, http.StatusOK, report)
}

// Purge deletes every booking that has already ended.
// @Summary Purge expired bookings
// @Tags Maintenance
// @Produce json
// @Success 200 {object} response.Data[retention.Report]
// @Failure 503 {object} response.Error
// @Router /v1/bookings/purge [delete]
// @Security BearerAuth
func (handler *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Purge")
	defer scope.End()

	report, err := handler.sweeper.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("deleted", report.Deleted).Msg("failed to purge expired bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

func (handler *Handler) fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	logger.Failure(err).Msg(msg)

	response.WithError(w, err)
}
