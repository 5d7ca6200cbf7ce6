package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"stayhub/internal/bookings/service"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/middleware"
	"stayhub/pkg/model"
)

type mockBookingService struct {
	checkAvailabilityFunc func(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	createFunc            func(ctx context.Context, principal *model.Principal, req *service.CreateRequest) (*model.Booking, error)
	listByUserFunc        func(ctx context.Context, userID string) ([]*model.BookingView, error)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, roomID, checkIn, checkOut)
	}
	return true, nil
}

func (m *mockBookingService) Create(ctx context.Context, principal *model.Principal, req *service.CreateRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, principal, req)
	}
	return &model.Booking{ID: "64b0c5f2a1d3e4f5a6b7c8db"}, nil
}

func (m *mockBookingService) ListByUser(ctx context.Context, userID string) ([]*model.BookingView, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

// passthroughAuth injects a fixed principal instead of calling the identity
// provider.
func passthroughAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), middleware.PrincipalKey, &model.Principal{
			ID:       "user-1",
			Email:    "guest@example.com",
			Username: "guest",
		})
		next(w, r.WithContext(ctx), ps)
	}
}

func newTestRouter(svc service.BookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, passthroughAuth, testLogger()).RegisterRoutes(router)
	return router
}

func TestCheckAvailability_ReportsAvailable(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	body := `{"room":"64b0c5f2a1d3e4f5a6b7c8d9","checkInDate":"2026-10-01","checkOutDate":"2026-10-04"}`
	req := httptest.NewRequest(http.MethodPost, "/check-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success     bool `json:"success"`
		IsAvailable bool `json:"isAvailable"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || !resp.IsAvailable {
		t.Errorf("expected success with isAvailable true, got %+v", resp)
	}
}

func TestCheckAvailability_StoreFaultMaps503(t *testing.T) {
	svc := &mockBookingService{
		checkAvailabilityFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
			return false, apperrors.CheckFailed("Failed to check room availability", nil)
		},
	}
	router := newTestRouter(svc)

	body := `{"room":"64b0c5f2a1d3e4f5a6b7c8d9","checkInDate":"2026-10-01","checkOutDate":"2026-10-04"}`
	req := httptest.NewRequest(http.MethodPost, "/check-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("expected success discriminant false, body: %s", rec.Body.String())
	}
}

func TestCheckAvailability_MalformedDate(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	body := `{"room":"64b0c5f2a1d3e4f5a6b7c8d9","checkInDate":"01/10/2026","checkOutDate":"2026-10-04"}`
	req := httptest.NewRequest(http.MethodPost, "/check-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestCreate_PassesPrincipalAndCoercesGuests(t *testing.T) {
	var got *service.CreateRequest
	var gotPrincipal *model.Principal
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, principal *model.Principal, req *service.CreateRequest) (*model.Booking, error) {
			got = req
			gotPrincipal = principal
			return &model.Booking{ID: "64b0c5f2a1d3e4f5a6b7c8db", TotalPrice: 300}, nil
		},
	}
	router := newTestRouter(svc)

	// guests arrives as a numeric string, the way some clients send it.
	body := `{"room":"64b0c5f2a1d3e4f5a6b7c8d9","checkInDate":"2026-10-01","checkOutDate":"2026-10-04","guests":"2"}`
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotPrincipal == nil || gotPrincipal.ID != "user-1" {
		t.Error("expected authenticated principal forwarded to the service")
	}
	if got == nil || got.Guests != 2 {
		t.Errorf("expected guests coerced to 2, got %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("expected success discriminant, body: %s", rec.Body.String())
	}
}

func TestCreate_RoomUnavailableMaps409(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, principal *model.Principal, req *service.CreateRequest) (*model.Booking, error) {
			return nil, apperrors.RoomUnavailable("Room is not available")
		},
	}
	router := newTestRouter(svc)

	body := `{"room":"64b0c5f2a1d3e4f5a6b7c8d9","checkInDate":"2026-10-01","checkOutDate":"2026-10-04","guests":2}`
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), apperrors.CodeRoomUnavailable) {
		t.Errorf("expected machine-readable code in body: %s", rec.Body.String())
	}
}

func TestListMine_ReturnsCallerBookings(t *testing.T) {
	svc := &mockBookingService{
		listByUserFunc: func(ctx context.Context, userID string) ([]*model.BookingView, error) {
			if userID != "user-1" {
				t.Errorf("expected lookup for user-1, got %s", userID)
			}
			return []*model.BookingView{
				{Booking: model.Booking{ID: "b1", User: userID}},
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/user-bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success  bool                 `json:"success"`
		Bookings []*model.BookingView `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Bookings) != 1 {
		t.Errorf("expected one booking, got %+v", resp)
	}
}
