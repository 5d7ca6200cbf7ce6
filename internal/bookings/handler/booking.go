package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"stayhub/internal/bookings/service"
	apperrors "stayhub/pkg/errors"
	httputil "stayhub/pkg/http"
	"stayhub/pkg/logger"
	"stayhub/pkg/middleware"
	"stayhub/pkg/model"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service      service.BookingService
	authenticate func(httprouter.Handle) httprouter.Handle
	log          *logger.Logger
}

func NewBookingHandler(service service.BookingService, authenticate func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:      service,
		authenticate: authenticate,
		log:          log,
	}
}

type availabilityRequest struct {
	Room         string `json:"room"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type availabilityResponse struct {
	Success     bool `json:"success"`
	IsAvailable bool `json:"isAvailable"`
}

type createBookingRequest struct {
	Room         string      `json:"room"`
	CheckInDate  string      `json:"checkInDate"`
	CheckOutDate string      `json:"checkOutDate"`
	Guests       json.Number `json:"guests"`
}

type bookingCreatedResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

type bookingListResponse struct {
	Success  bool                 `json:"success"`
	Bookings []*model.BookingView `json:"bookings"`
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.BadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CheckAvailability", "operation", "BadRequest", "error", writeErr)
		}
		return
	}

	checkIn, checkOut, err := parseDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), req.Room, checkIn, checkOut)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{Success: true, IsAvailable: available}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.BadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "BadRequest", "error", writeErr)
		}
		return
	}

	checkIn, checkOut, err := parseDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	// Guests arrives as a number or a numeric string depending on client.
	guests, err := req.Guests.Int64()
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("guests must be a whole number")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	principal := middleware.PrincipalFrom(r.Context())

	booking, err := h.service.Create(r.Context(), principal, &service.CreateRequest{
		Room:         req.Room,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       int(guests),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, bookingCreatedResponse{
		Success: true,
		Message: "Booking created successfully",
		Booking: booking,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing authenticated principal")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, err := h.service.ListByUser(r.Context(), principal.ID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookingListResponse{Success: true, Bookings: bookings}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "operation", "WriteSuccess", "error", err)
	}
}

// parseDateRange parses the date-only wire format. Range validation beyond
// format (check-out after check-in) belongs to the service.
func parseDateRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	if checkInStr == "" || checkOutStr == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange("checkInDate and checkOutDate are required")
	}

	checkIn, err := time.Parse(dateLayout, checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange("checkInDate must be formatted as YYYY-MM-DD")
	}
	checkOut, err := time.Parse(dateLayout, checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange("checkOutDate must be formatted as YYYY-MM-DD")
	}

	return checkIn, checkOut, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/check-availability", h.CheckAvailability)
	router.POST("/book", h.authenticate(h.Create))
	router.GET("/user-bookings", h.authenticate(h.ListMine))
}
