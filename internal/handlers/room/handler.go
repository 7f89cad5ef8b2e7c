package room

import (
	"net/http"
	"roombook/infras/otel"
	"roombook/internal/domains/room/model"
	"roombook/internal/domains/room/model/dto"
	"roombook/internal/domains/room/service"
	"roombook/shared"
	"roombook/shared/constant"
	gDto "roombook/shared/dto"
	"roombook/shared/logger"
	"roombook/shared/validator"
	"roombook/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomRequest true "Create Room Request"
// @Success 201 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		handler.fail(writer, scope, err, "failed to validate request body")

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		handler.fail(writer, scope, err, "failed to create room")

		return
	}

	scope.AddEvent("Room created " + room.ID)

	response.WithJSON(writer, http.StatusCreated, room)
}

// GetRooms lists rooms.
// @Summary Get all rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Name contains"
// @Param location query string false "Location contains"
// @Param available query boolean false "Available flag"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rooms, err := handler.service.GetAll(ctx, queryParams, roomFilter(r))
	if err != nil {
		handler.fail(w, scope, err, "failed to get rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, scope, err, "failed to get room by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom patches a room.
// @Summary Update a room by ID
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Update Room Request"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	req := dto.UpdateRoomRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		handler.fail(w, scope, err, "failed to validate request body")

		return
	}

	room, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, scope, err, "failed to update room")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// DeleteRoom removes a room that no longer has pending bookings.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		handler.fail(w, scope, err, "failed to delete room")

		return
	}

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

func (handler *Handler) fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	logger.Failure(err).Msg(msg)

	response.WithError(w, err)
}

// roomFilter reads the optional name, location and available query parameters.
func roomFilter(r *http.Request) model.Filter {
	query := r.URL.Query()

	return model.Filter{
		Name:      strings.TrimSpace(query.Get(model.FieldName)),
		Location:  strings.TrimSpace(query.Get(model.FieldLocation)),
		Available: shared.ConvertStringToBool(query.Get(model.FieldAvailable)),
	}
}
