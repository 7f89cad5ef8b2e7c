package booking

import (
	"net/http"
	"roombook/infras/otel"
	"roombook/internal/domains/booking/model/dto"
	"roombook/internal/domains/booking/service"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/failure"
	"roombook/shared/logger"
	"roombook/shared/validator"
	"roombook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/room/{roomId}", handler.GetRoomBookings)
		routerGroup.Get("/user/{userId}", handler.GetUserBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking books a window of a room for the caller.
// @Summary Create a new booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		handler.fail(writer, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		handler.fail(writer, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking created by user " + booking.UserID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.ListAll(ctx, queryParams)
	if err != nil {
		handler.fail(w, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the caller's own bookings.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.BookingResponse]
// @Failure 401 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.ListByUser(ctx, userID)
	if err != nil {
		handler.fail(w, scope, err, "failed to get user bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetRoomBookings lists the bookings of one room together with its available flag.
// @Summary Get bookings of a room
// @Tags Booking
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomBookingsResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/room/{roomId} [get]
func (handler *Handler) GetRoomBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomBookings")
	defer scope.End()

	bookings, err := handler.service.ListByRoom(ctx, chi.URLParam(r, constant.RequestParamRoomID))
	if err != nil {
		handler.fail(w, scope, err, "failed to get room bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetUserBookings lists the bookings held by a user.
// @Summary Get bookings of a user
// @Tags Booking
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Data[[]dto.BookingResponse]
// @Router /v1/bookings/user/{userId} [get]
// @Security BearerAuth
func (handler *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserBookings")
	defer scope.End()

	bookings, err := handler.service.ListByUser(ctx, chi.URLParam(r, constant.RequestParamUserID))
	if err != nil {
		handler.fail(w, scope, err, "failed to get user bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking patches a booking. Moving it re-runs admission with the booking itself excluded.
// @Summary Update a booking by ID
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		handler.fail(w, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, scope, err, "failed to update booking")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// DeleteBooking cancels a booking.
// @Summary Delete a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		handler.fail(w, scope, err, "failed to delete booking")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}

func (handler *Handler) fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	logger.Failure(err).Msg(msg)

	response.WithError(w, err)
}
