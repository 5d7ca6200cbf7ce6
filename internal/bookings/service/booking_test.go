package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingserrors "stayhub/internal/bookings/errors"
	"stayhub/internal/bookings/validator"
	"stayhub/pkg/config"
	mongotx "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

const (
	testRoomID  = "64b0c5f2a1d3e4f5a6b7c8d9"
	testHotelID = "64b0c5f2a1d3e4f5a6b7c8da"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	mu              sync.Mutex
	created         []*model.Booking
	createFunc      func(ctx context.Context, booking *model.Booking) error
	findOverlapping func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	findByUserFunc  func(ctx context.Context, userID string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = "64b0c5f2a1d3e4f5a6b7c8db"
	booking.CreatedAt = time.Now()
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if m.findOverlapping != nil {
		return m.findOverlapping(ctx, roomID, checkIn, checkOut)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByHotel(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockRoomLockRepository struct {
	mu         sync.Mutex
	held       map[string]bool
	createFunc func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
}

func (m *mockRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = make(map[string]bool)
	}
	if m.held[lock.ID] {
		return nil, bookingserrors.ErrLockHeld
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *mockRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

type mockRoomRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error { return nil }

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return testRoom(), nil
}

func (m *mockRoomRepository) FindByHotel(ctx context.Context, hotelID string) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Room, error) {
	rooms := make(map[string]*model.Room, len(ids))
	for _, id := range ids {
		room := testRoom()
		room.ID = id
		rooms[id] = room
	}
	return rooms, nil
}

type mockHotelRepository struct{}

func (m *mockHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error { return nil }

func (m *mockHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	hotel := testHotel()
	hotel.ID = id
	return hotel, nil
}

func (m *mockHotelRepository) FindByOwner(ctx context.Context, ownerID string) (*model.Hotel, error) {
	return testHotel(), nil
}

func (m *mockHotelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Hotel, error) {
	hotels := make(map[string]*model.Hotel, len(ids))
	for _, id := range ids {
		hotel := testHotel()
		hotel.ID = id
		hotels[id] = hotel
	}
	return hotels, nil
}

type mockNotifier struct {
	mu         sync.Mutex
	events     []*model.BookingConfirmed
	notifyFunc func(ctx context.Context, event *model.BookingConfirmed) error
}

func (m *mockNotifier) BookingConfirmed(ctx context.Context, event *model.BookingConfirmed) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
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
		RoomLockTTL: 10 * time.Second,
	}
}

func testRoom() *model.Room {
	return &model.Room{
		ID:            testRoomID,
		Hotel:         testHotelID,
		RoomType:      "Deluxe Suite",
		PricePerNight: 100,
		IsAvailable:   true,
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
	return &model.Principal{
		ID:       "user-1",
		Email:    "guest@example.com",
		Username: "guest",
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(bookingRepo *mockBookingRepository, lockRepo *mockRoomLockRepository, roomRepo *mockRoomRepository, notifier *mockNotifier) BookingService {
	cfg := testConfig()
	if bookingRepo == nil {
		bookingRepo = &mockBookingRepository{}
	}
	if lockRepo == nil {
		lockRepo = &mockRoomLockRepository{}
	}
	if roomRepo == nil {
		roomRepo = &mockRoomRepository{}
	}
	var n ConfirmationNotifier
	if notifier != nil {
		n = notifier
	}
	return NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		&mockHotelRepository{},
		validator.NewBookingValidator(cfg.Log),
		n,
		cfg,
	)
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_PricingMultipliesNightsByRate(t *testing.T) {
	repo := &mockBookingRepository{}
	service := newTestService(repo, nil, nil, nil)

	booking, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.TotalPrice != 300 {
		t.Errorf("expected total price 300 for 3 nights at 100, got %v", booking.TotalPrice)
	}
	if booking.IsPaid {
		t.Error("new booking must not be marked paid")
	}
	if booking.User != "user-1" {
		t.Errorf("expected booking owner user-1, got %s", booking.User)
	}
	if booking.Hotel != testHotelID {
		t.Errorf("expected denormalized hotel %s, got %s", testHotelID, booking.Hotel)
	}
}

func TestCreate_RejectsInvalidDateRange(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			t.Fatal("booking must not be persisted for an invalid range")
			return nil
		},
	}
	service := newTestService(repo, nil, nil, nil)

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"check-out equals check-in", date(2026, time.October, 1), date(2026, time.October, 1)},
		{"check-out before check-in", date(2026, time.October, 4), date(2026, time.October, 1)},
		{"zero check-in", time.Time{}, date(2026, time.October, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
				Room:         testRoomID,
				CheckInDate:  tc.checkIn,
				CheckOutDate: tc.checkOut,
				Guests:       1,
			})
			if !apperrors.HasCode(err, apperrors.CodeInvalidDateRange) {
				t.Errorf("expected INVALID_DATE_RANGE, got %v", err)
			}
		})
	}
}

func TestCreate_ConflictWhenRangeOverlaps(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlapping: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "existing"}}, nil
		},
	}
	service := newTestService(repo, nil, nil, nil)

	_, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected ROOM_UNAVAILABLE, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("expected no booking persisted, got %d", len(repo.created))
	}
}

func TestCreate_DisjointRangesBothSucceed(t *testing.T) {
	repo := &mockBookingRepository{}
	service := newTestService(repo, nil, nil, nil)

	repo.findOverlapping = func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		var overlapping []*model.Booking
		for _, b := range repo.created {
			if !b.CheckInDate.After(checkOut) && !b.CheckOutDate.Before(checkIn) {
				overlapping = append(overlapping, b)
			}
		}
		return overlapping, nil
	}

	ranges := []struct {
		checkIn  time.Time
		checkOut time.Time
	}{
		{date(2026, time.October, 1), date(2026, time.October, 4)},
		{date(2026, time.October, 5), date(2026, time.October, 8)},
	}
	for _, r := range ranges {
		_, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
			Room:         testRoomID,
			CheckInDate:  r.checkIn,
			CheckOutDate: r.checkOut,
			Guests:       2,
		})
		if err != nil {
			t.Fatalf("unexpected error booking %s to %s: %v",
				r.checkIn.Format("2006-01-02"), r.checkOut.Format("2006-01-02"), err)
		}
	}

	if len(repo.created) != 2 {
		t.Errorf("expected both disjoint bookings persisted, got %d", len(repo.created))
	}
}

func TestCreate_ConcurrentRequestsAtMostOneWins(t *testing.T) {
	repo := &mockBookingRepository{}
	lockRepo := &mockRoomLockRepository{}
	service := newTestService(repo, lockRepo, nil, nil)

	// The second request either loses the advisory lock (conflict) or sees
	// the winner's row in the re-check. Both must never double-book.
	repo.findOverlapping = func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		existing := make([]*model.Booking, len(repo.created))
		copy(existing, repo.created)
		return existing, nil
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = service.Create(context.Background(), testPrincipal(), &CreateRequest{
				Room:         testRoomID,
				CheckInDate:  date(2026, time.October, 1),
				CheckOutDate: date(2026, time.October, 4),
				Guests:       2,
			})
		}(i)
	}
	wg.Wait()

	if len(repo.created) > 1 {
		t.Fatalf("expected at most one persisted booking, got %d", len(repo.created))
	}
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !apperrors.HasCode(err, apperrors.CodeConflict) && !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
			t.Errorf("unexpected error for losing request: %v", err)
		}
	}
	if succeeded > 1 {
		t.Errorf("expected at most one successful request, got %d", succeeded)
	}
}

func TestCreate_LockHeldReturnsConflict(t *testing.T) {
	lockRepo := &mockRoomLockRepository{
		createFunc: func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
			return nil, bookingserrors.ErrLockHeld
		},
	}
	service := newTestService(nil, lockRepo, nil, nil)

	_, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT when lock is held, got %v", err)
	}
}

func TestCreate_LockReleasedAfterSuccess(t *testing.T) {
	lockRepo := &mockRoomLockRepository{}
	service := newTestService(nil, lockRepo, nil, nil)

	_, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lockRepo.held["room_lock_"+testRoomID] {
		t.Error("expected room lock to be released after the booking committed")
	}
}

func TestCreate_NotificationFailureStillSucceeds(t *testing.T) {
	repo := &mockBookingRepository{}
	notifier := &mockNotifier{
		notifyFunc: func(ctx context.Context, event *model.BookingConfirmed) error {
			return errors.New("broker unreachable")
		},
	}
	service := newTestService(repo, nil, nil, notifier)

	booking, err := service.Create(context.Background(), testPrincipal(), &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if err != nil {
		t.Fatalf("booking must succeed even when notification fails, got %v", err)
	}
	if booking == nil || booking.ID == "" {
		t.Fatal("expected a persisted booking despite notification failure")
	}
	if len(repo.created) != 1 {
		t.Errorf("expected exactly one persisted booking, got %d", len(repo.created))
	}
}

func TestCreate_PublishesConfirmationEvent(t *testing.T) {
	notifier := &mockNotifier{}
	service := newTestService(nil, nil, nil, notifier)

	principal := testPrincipal()
	_, err := service.Create(context.Background(), principal, &CreateRequest{
		Room:         testRoomID,
		CheckInDate:  date(2026, time.October, 1),
		CheckOutDate: date(2026, time.October, 4),
		Guests:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected one confirmation event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.UserEmail != principal.Email {
		t.Errorf("expected event recipient %s, got %s", principal.Email, event.UserEmail)
	}
	if event.HotelName != "Grand Plaza" {
		t.Errorf("expected hotel name in event, got %q", event.HotelName)
	}
	if event.TotalPrice != 300 {
		t.Errorf("expected event total 300, got %v", event.TotalPrice)
	}
}

// ────────────────────────────────────────────────
// Tests for CheckAvailability()
// ────────────────────────────────────────────────

func TestCheckAvailability_FreeRange(t *testing.T) {
	service := newTestService(nil, nil, nil, nil)

	available, err := service.CheckAvailability(context.Background(), testRoomID,
		date(2026, time.October, 1), date(2026, time.October, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("expected room to be available when no booking overlaps")
	}
}

func TestCheckAvailability_OverlapBlocks(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlapping: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "existing"}}, nil
		},
	}
	service := newTestService(repo, nil, nil, nil)

	available, err := service.CheckAvailability(context.Background(), testRoomID,
		date(2026, time.October, 1), date(2026, time.October, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("expected room to be unavailable when a booking overlaps")
	}
}

func TestCheckAvailability_StoreFaultIsCheckFailedNotUnavailable(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlapping: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return nil, errors.New("connection reset")
		},
	}
	service := newTestService(repo, nil, nil, nil)

	_, err := service.CheckAvailability(context.Background(), testRoomID,
		date(2026, time.October, 1), date(2026, time.October, 4))
	if !apperrors.HasCode(err, apperrors.CodeCheckFailed) {
		t.Fatalf("expected AVAILABILITY_CHECK_FAILED, got %v", err)
	}
	if apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
		t.Error("store faults must not masquerade as unavailability")
	}
}

func TestCheckAvailability_RejectsInvertedRange(t *testing.T) {
	service := newTestService(nil, nil, nil, nil)

	_, err := service.CheckAvailability(context.Background(), testRoomID,
		date(2026, time.October, 4), date(2026, time.October, 1))
	if !apperrors.HasCode(err, apperrors.CodeInvalidDateRange) {
		t.Fatalf("expected INVALID_DATE_RANGE, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Tests for ListByUser()
// ────────────────────────────────────────────────

func TestListByUser_ExpandsRoomAndHotel(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b1", User: userID, Room: testRoomID, Hotel: testHotelID, TotalPrice: 300},
			}, nil
		},
	}
	service := newTestService(repo, nil, nil, nil)

	views, err := service.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 booking view, got %d", len(views))
	}
	if views[0].RoomDoc == nil || views[0].RoomDoc.ID != testRoomID {
		t.Error("expected room details expanded on the view")
	}
	if views[0].HotelDoc == nil || views[0].HotelDoc.ID != testHotelID {
		t.Error("expected hotel details expanded on the view")
	}
}

// ────────────────────────────────────────────────
// Tests for Nights()
// ────────────────────────────────────────────────

func TestNights_PartialDaysRoundUp(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three full days", date(2026, time.October, 1), date(2026, time.October, 4), 3},
		{"single night", date(2026, time.October, 1), date(2026, time.October, 2), 1},
		{"partial day rounds up", date(2026, time.October, 1), time.Date(2026, time.October, 2, 12, 0, 0, 0, time.UTC), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Nights(tc.checkIn, tc.checkOut); got != tc.want {
				t.Errorf("Nights(%v, %v) = %d, want %d", tc.checkIn, tc.checkOut, got, tc.want)
			}
		})
	}
}
