package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayhub/internal/hotels/service"
	apperrors "stayhub/pkg/errors"
	httputil "stayhub/pkg/http"
	"stayhub/pkg/logger"
	"stayhub/pkg/middleware"
	"stayhub/pkg/model"
)

type HotelHandler struct {
	service      service.HotelService
	authenticate func(httprouter.Handle) httprouter.Handle
	log          *logger.Logger
}

func NewHotelHandler(service service.HotelService, authenticate func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		service:      service,
		authenticate: authenticate,
		log:          log,
	}
}

type hotelCreatedResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Hotel   *model.Hotel `json:"hotel"`
}

type roomCreatedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Room    *model.Room `json:"room"`
}

type roomResponse struct {
	Success bool        `json:"success"`
	Room    *model.Room `json:"room"`
}

type roomListResponse struct {
	Success bool          `json:"success"`
	Rooms   []*model.Room `json:"rooms"`
}

type dashboardResponse struct {
	Success       bool                 `json:"success"`
	DashboardData *model.DashboardData `json:"dashboardData"`
}

func (h *HotelHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hotel model.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		if writeErr := httputil.BadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "BadRequest", "error", writeErr)
		}
		return
	}

	principal := middleware.PrincipalFrom(r.Context())

	created, err := h.service.Register(r.Context(), principal, &hotel)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, hotelCreatedResponse{
		Success: true,
		Message: "Hotel registered successfully",
		Hotel:   created,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *HotelHandler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		if writeErr := httputil.BadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateRoom", "operation", "BadRequest", "error", writeErr)
		}
		return
	}

	principal := middleware.PrincipalFrom(r.Context())

	created, err := h.service.CreateRoom(r.Context(), principal, &room)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, roomCreatedResponse{
		Success: true,
		Message: "Room created successfully",
		Room:    created,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRoom", "operation", "WriteCreated", "error", err)
	}
}

func (h *HotelHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	room, err := h.service.GetRoom(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, roomResponse{Success: true, Room: room}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRoom", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hotelID := r.URL.Query().Get("hotel_id")
	if hotelID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'hotel_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	rooms, err := h.service.ListRooms(r.Context(), hotelID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, roomListResponse{Success: true, Rooms: rooms}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListRooms", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing authenticated principal")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Dashboard", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	dashboard, err := h.service.OwnerDashboard(r.Context(), principal.ID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Dashboard", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, dashboardResponse{Success: true, DashboardData: dashboard}); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/hotel-bookings", h.authenticate(h.Dashboard))
	router.POST("/api/v1/hotels", h.authenticate(h.Register))
	router.POST("/api/v1/rooms", h.authenticate(h.CreateRoom))
	router.GET("/api/v1/rooms", h.ListRooms)
	router.GET("/api/v1/rooms/id/:id", h.GetRoom)
}
