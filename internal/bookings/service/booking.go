package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "stayhub/internal/bookings/errors"
	"stayhub/internal/bookings/repository"
	"stayhub/internal/bookings/validator"
	hotelserrors "stayhub/internal/hotels/errors"
	hotelsrepo "stayhub/internal/hotels/repository"
	"stayhub/pkg/config"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/model"
)

type CreateRequest struct {
	Room         string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Guests       int
}

// ConfirmationNotifier dispatches the post-booking confirmation event. The
// dispatch is best-effort: a failure here never rolls back the booking.
type ConfirmationNotifier interface {
	BookingConfirmed(ctx context.Context, event *model.BookingConfirmed) error
}

type BookingService interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	Create(ctx context.Context, principal *model.Principal, req *CreateRequest) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.BookingView, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	roomRepo  hotelsrepo.RoomRepository
	hotelRepo hotelsrepo.HotelRepository
	validator *validator.BookingValidator
	notifier  ConfirmationNotifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	roomRepo hotelsrepo.RoomRepository,
	hotelRepo hotelsrepo.HotelRepository,
	validator *validator.BookingValidator,
	notifier ConfirmationNotifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		roomRepo:  roomRepo,
		hotelRepo: hotelRepo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// CheckAvailability reports whether the room is free for [checkIn, checkOut].
// A store fault surfaces as CheckFailed, never as "unavailable".
func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if err := validateDateRange(checkIn, checkOut); err != nil {
		return false, err
	}

	existing, err := s.repo.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		s.cfg.Log.Error("Availability check failed", "room", roomID, "error", err)
		return false, apperrors.CheckFailed("Failed to check room availability", err)
	}

	return len(existing) == 0, nil
}

func (s *bookingService) Create(ctx context.Context, principal *model.Principal, req *CreateRequest) (*model.Booking, error) {
	if principal == nil || principal.ID == "" {
		return nil, apperrors.Unauthorized("Missing authenticated principal")
	}
	if err := validateDateRange(req.CheckInDate, req.CheckOutDate); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.FindByID(ctx, req.Room)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", req.Room)
		}
		if errors.Is(err, hotelserrors.ErrInvalidRoomID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to load room", err)
	}

	hotel, err := s.hotelRepo.FindByID(ctx, room.Hotel)
	if err != nil {
		return nil, apperrors.Internal("Failed to load hotel for room", err)
	}

	booking := &model.Booking{
		User:         principal.ID,
		Room:         room.ID,
		Hotel:        hotel.ID,
		Guests:       req.Guests,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		TotalPrice:   room.PricePerNight * float64(Nights(req.CheckInDate, req.CheckOutDate)),
		IsPaid:       false,
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	// Advisory lock closes the check-then-insert race: concurrent requests
	// for the same room serialize here, and the availability re-check runs
	// inside the transaction under the lock.
	lockID, err := s.acquireRoomLock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindOverlapping(sessCtx, room.ID, req.CheckInDate, req.CheckOutDate)
		if err != nil {
			return apperrors.CheckFailed("Failed to check room availability", err)
		}
		if len(existing) > 0 {
			return apperrors.RoomUnavailable("Room is not available")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
			s.cfg.Log.Error("Failed to create booking", "room", room.ID, "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user", booking.User,
		"room", booking.Room,
		"hotel", booking.Hotel,
		"total_price", booking.TotalPrice,
	)

	// The booking is durable at this point; a notification fault is logged
	// and swallowed so the client still learns about its booking.
	s.dispatchConfirmation(ctx, booking, room, hotel, principal)

	return booking, nil
}

func (s *bookingService) dispatchConfirmation(ctx context.Context, booking *model.Booking, room *model.Room, hotel *model.Hotel, principal *model.Principal) {
	if s.notifier == nil {
		return
	}

	event := &model.BookingConfirmed{
		BookingID:    booking.ID,
		UserEmail:    principal.Email,
		Username:     principal.Username,
		HotelName:    hotel.Name,
		HotelAddress: hotel.Address,
		HotelCity:    hotel.City,
		RoomType:     room.RoomType,
		Guests:       booking.Guests,
		CheckInDate:  booking.CheckInDate,
		CheckOutDate: booking.CheckOutDate,
		TotalPrice:   booking.TotalPrice,
		IsPaid:       booking.IsPaid,
		ConfirmedAt:  time.Now().UTC(),
	}

	if err := s.notifier.BookingConfirmed(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to dispatch booking confirmation",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]*model.BookingView, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.expand(ctx, bookings)
}

// expand resolves room and hotel references for a booking list with two
// batched lookups instead of one query per booking.
func (s *bookingService) expand(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	roomIDs := make([]string, 0, len(bookings))
	hotelIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		roomIDs = append(roomIDs, b.Room)
		hotelIDs = append(hotelIDs, b.Hotel)
	}

	rooms, err := s.roomRepo.FindByIDs(ctx, roomIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to expand rooms", err)
	}
	hotels, err := s.hotelRepo.FindByIDs(ctx, hotelIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to expand hotels", err)
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, &model.BookingView{
			Booking:  *b,
			RoomDoc:  rooms[b.Room],
			HotelDoc: hotels[b.Hotel],
		})
	}
	return views, nil
}

// Nights computes the stay length as a calendar-day ceiling, matching the
// pricing rule: partial days round up.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func validateDateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return apperrors.InvalidDateRange("check_in_date and check_out_date are required")
	}
	if !checkOut.After(checkIn) {
		return apperrors.InvalidDateRange("check_out_date must be after check_in_date")
	}
	return nil
}

func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.RoomLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
