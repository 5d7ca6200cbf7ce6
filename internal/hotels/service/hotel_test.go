package service

import (
	"context"
	"testing"
	"time"

	hotelserrors "stayhub/internal/hotels/errors"
	"stayhub/internal/hotels/validator"
	"stayhub/pkg/config"
	mongotx "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

const (
	testHotelID = "64b0c5f2a1d3e4f5a6b7c8da"
	testRoomID  = "64b0c5f2a1d3e4f5a6b7c8d9"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockHotelRepository struct {
	createFunc      func(ctx context.Context, hotel *model.Hotel) error
	findByOwnerFunc func(ctx context.Context, ownerID string) (*model.Hotel, error)
}

func (m *mockHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, hotel)
	}
	hotel.ID = testHotelID
	return nil
}

func (m *mockHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	return testHotel(), nil
}

func (m *mockHotelRepository) FindByOwner(ctx context.Context, ownerID string) (*model.Hotel, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return testHotel(), nil
}

func (m *mockHotelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Hotel, error) {
	return map[string]*model.Hotel{testHotelID: testHotel()}, nil
}

type mockRoomRepository struct {
	createFunc func(ctx context.Context, room *model.Room) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = testRoomID
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return nil, hotelserrors.ErrRoomNotFound
}

func (m *mockRoomRepository) FindByHotel(ctx context.Context, hotelID string) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Room, error) {
	rooms := make(map[string]*model.Room, len(ids))
	for _, id := range ids {
		rooms[id] = &model.Room{ID: id, Hotel: testHotelID, RoomType: "Standard", PricePerNight: 100}
	}
	return rooms, nil
}

type mockBookingRepository struct {
	findByHotelFunc func(ctx context.Context, hotelID string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByHotel(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	if m.findByHotelFunc != nil {
		return m.findByHotelFunc(ctx, hotelID)
	}
	return nil, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func testHotel() *model.Hotel {
	return &model.Hotel{
		ID:      testHotelID,
		Name:    "Grand Plaza",
		Address: "1 Main Street",
		Contact: "+1 555 0100",
		Owner:   "owner-1",
		City:    "amsterdam",
	}
}

func testPrincipal() *model.Principal {
	return &model.Principal{ID: "owner-1", Email: "owner@example.com", Username: "owner"}
}

func newTestService(hotelRepo *mockHotelRepository, roomRepo *mockRoomRepository, bookingRepo *mockBookingRepository) HotelService {
	cfg := testConfig()
	if hotelRepo == nil {
		hotelRepo = &mockHotelRepository{}
	}
	if roomRepo == nil {
		roomRepo = &mockRoomRepository{}
	}
	if bookingRepo == nil {
		bookingRepo = &mockBookingRepository{}
	}
	return NewHotelService(hotelRepo, roomRepo, bookingRepo, validator.NewHotelValidator(cfg.Log), cfg)
}

// ────────────────────────────────────────────────
// Tests for OwnerDashboard()
// ────────────────────────────────────────────────

func TestOwnerDashboard_AggregatesCountAndRevenue(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByHotelFunc: func(ctx context.Context, hotelID string) ([]*model.Booking, error) {
			// Newest first, the order the repository returns.
			return []*model.Booking{
				{ID: "b3", Room: testRoomID, Hotel: hotelID, TotalPrice: 200},
				{ID: "b2", Room: testRoomID, Hotel: hotelID, TotalPrice: 150},
				{ID: "b1", Room: testRoomID, Hotel: hotelID, TotalPrice: 75},
			}, nil
		},
	}
	service := newTestService(nil, nil, bookingRepo)

	dashboard, err := service.OwnerDashboard(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dashboard.TotalBookings != 3 {
		t.Errorf("expected 3 bookings, got %d", dashboard.TotalBookings)
	}
	if dashboard.TotalRevenue != 425 {
		t.Errorf("expected revenue 425, got %v", dashboard.TotalRevenue)
	}
	if len(dashboard.Bookings) != 3 || dashboard.Bookings[0].ID != "b3" {
		t.Error("expected bookings newest first")
	}
	if dashboard.Bookings[0].RoomDoc == nil {
		t.Error("expected room details expanded on dashboard bookings")
	}
	if dashboard.Bookings[0].HotelDoc == nil || dashboard.Bookings[0].HotelDoc.ID != testHotelID {
		t.Error("expected hotel details expanded on dashboard bookings")
	}
}

func TestOwnerDashboard_EmptyHotel(t *testing.T) {
	service := newTestService(nil, nil, nil)

	dashboard, err := service.OwnerDashboard(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dashboard.TotalBookings != 0 || dashboard.TotalRevenue != 0 {
		t.Errorf("expected empty dashboard, got %d bookings, revenue %v", dashboard.TotalBookings, dashboard.TotalRevenue)
	}
}

func TestOwnerDashboard_NoHotelForOwner(t *testing.T) {
	hotelRepo := &mockHotelRepository{
		findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.Hotel, error) {
			return nil, hotelserrors.ErrNotFound
		},
	}
	service := newTestService(hotelRepo, nil, nil)

	_, err := service.OwnerDashboard(context.Background(), "owner-2")
	if !apperrors.HasCode(err, apperrors.CodeNoHotelFound) {
		t.Fatalf("expected NO_HOTEL_FOUND, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Tests for Register()
// ────────────────────────────────────────────────

func TestRegister_SanitizesAndPersists(t *testing.T) {
	service := newTestService(nil, nil, nil)

	hotel, err := service.Register(context.Background(), testPrincipal(), &model.Hotel{
		Name:    "  Grand   Plaza  ",
		Address: " 1 Main Street ",
		Contact: "+1 555 0100",
		City:    "  AMSterdam ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hotel.Name != "Grand Plaza" {
		t.Errorf("expected normalized name, got %q", hotel.Name)
	}
	if hotel.City != "amsterdam" {
		t.Errorf("expected lowercased city, got %q", hotel.City)
	}
	if hotel.Owner != "owner-1" {
		t.Errorf("expected owner from principal, got %q", hotel.Owner)
	}
}

func TestRegister_SecondHotelConflicts(t *testing.T) {
	hotelRepo := &mockHotelRepository{
		createFunc: func(ctx context.Context, hotel *model.Hotel) error {
			return hotelserrors.ErrOwnerHasHotel
		},
	}
	service := newTestService(hotelRepo, nil, nil)

	_, err := service.Register(context.Background(), testPrincipal(), &model.Hotel{
		Name:    "Second Hotel",
		Address: "2 Side Street",
		Contact: "+1 555 0101",
		City:    "utrecht",
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT for a second hotel, got %v", err)
	}
}

func TestRegister_InvalidHotelRejected(t *testing.T) {
	service := newTestService(nil, nil, nil)

	_, err := service.Register(context.Background(), testPrincipal(), &model.Hotel{
		Name: "X",
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Tests for CreateRoom()
// ────────────────────────────────────────────────

func TestCreateRoom_AttachesToOwnersHotel(t *testing.T) {
	service := newTestService(nil, nil, nil)

	room, err := service.CreateRoom(context.Background(), testPrincipal(), &model.Room{
		RoomType:      "  Deluxe   Suite ",
		PricePerNight: 120,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if room.Hotel != testHotelID {
		t.Errorf("expected room attached to hotel %s, got %s", testHotelID, room.Hotel)
	}
	if room.RoomType != "Deluxe Suite" {
		t.Errorf("expected normalized room type, got %q", room.RoomType)
	}
}

func TestCreateRoom_WithoutHotelFails(t *testing.T) {
	hotelRepo := &mockHotelRepository{
		findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.Hotel, error) {
			return nil, hotelserrors.ErrNotFound
		},
	}
	service := newTestService(hotelRepo, nil, nil)

	_, err := service.CreateRoom(context.Background(), testPrincipal(), &model.Room{
		RoomType:      "Standard",
		PricePerNight: 80,
	})
	if !apperrors.HasCode(err, apperrors.CodeNoHotelFound) {
		t.Fatalf("expected NO_HOTEL_FOUND, got %v", err)
	}
}

func TestCreateRoom_NonPositivePriceRejected(t *testing.T) {
	service := newTestService(nil, nil, nil)

	_, err := service.CreateRoom(context.Background(), testPrincipal(), &model.Room{
		RoomType:      "Standard",
		PricePerNight: 0,
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for zero price, got %v", err)
	}
}
