package service

import (
	"context"
	"errors"

	bookingsrepo "stayhub/internal/bookings/repository"
	hotelserrors "stayhub/internal/hotels/errors"
	"stayhub/internal/hotels/repository"
	"stayhub/internal/hotels/validator"
	"stayhub/pkg/config"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/model"
	"stayhub/pkg/sanitizer"
)

type HotelService interface {
	Register(ctx context.Context, principal *model.Principal, hotel *model.Hotel) (*model.Hotel, error)
	CreateRoom(ctx context.Context, principal *model.Principal, room *model.Room) (*model.Room, error)
	GetRoom(ctx context.Context, roomID string) (*model.Room, error)
	ListRooms(ctx context.Context, hotelID string) ([]*model.Room, error)
	OwnerDashboard(ctx context.Context, ownerID string) (*model.DashboardData, error)
}

type hotelService struct {
	repo        repository.HotelRepository
	roomRepo    repository.RoomRepository
	bookingRepo bookingsrepo.BookingRepository
	validator   *validator.HotelValidator
	cfg         *config.Config
}

func NewHotelService(
	repo repository.HotelRepository,
	roomRepo repository.RoomRepository,
	bookingRepo bookingsrepo.BookingRepository,
	validator *validator.HotelValidator,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repo:        repo,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		validator:   validator,
		cfg:         cfg,
	}
}

// Register creates the caller's hotel. The store's unique index on owner
// enforces the one-hotel-per-owner rule.
func (s *hotelService) Register(ctx context.Context, principal *model.Principal, hotel *model.Hotel) (*model.Hotel, error) {
	if principal == nil || principal.ID == "" {
		return nil, apperrors.Unauthorized("Missing authenticated principal")
	}

	hotel.Owner = principal.ID
	s.sanitizeHotel(hotel)

	if err := s.validator.ValidateHotel(hotel); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "owner", principal.ID, "error", err)
		return nil, apperrors.Validation("Hotel validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		if errors.Is(err, hotelserrors.ErrOwnerHasHotel) {
			return nil, apperrors.Conflict("You already have a registered hotel")
		}
		s.cfg.Log.Error("Failed to register hotel", "owner", principal.ID, "error", err)
		return nil, apperrors.Internal("Failed to register hotel", err)
	}

	s.cfg.Log.Info("Hotel registered", "id", hotel.ID, "owner", hotel.Owner, "city", hotel.City)
	return hotel, nil
}

// CreateRoom adds a room to the caller's hotel. Owners can only attach rooms
// to the hotel they registered.
func (s *hotelService) CreateRoom(ctx context.Context, principal *model.Principal, room *model.Room) (*model.Room, error) {
	if principal == nil || principal.ID == "" {
		return nil, apperrors.Unauthorized("Missing authenticated principal")
	}

	hotel, err := s.repo.FindByOwner(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrNotFound) {
			return nil, apperrors.NoHotelFound(principal.ID)
		}
		s.cfg.Log.Error("Failed to resolve owner hotel", "owner", principal.ID, "error", err)
		return nil, apperrors.Internal("Failed to resolve hotel", err)
	}

	room.Hotel = hotel.ID
	room.RoomType = sanitizer.NormalizeRoomType(room.RoomType)
	for i, amenity := range room.Amenities {
		room.Amenities[i] = sanitizer.TrimAndNormalize(amenity)
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "hotel", hotel.ID, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "hotel", hotel.ID, "error", err)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "hotel", room.Hotel, "room_type", room.RoomType)
	return room, nil
}

func (s *hotelService) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		if errors.Is(err, hotelserrors.ErrInvalidRoomID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		s.cfg.Log.Error("Failed to load room", "room", roomID, "error", err)
		return nil, apperrors.Internal("Failed to load room", err)
	}
	return room, nil
}

func (s *hotelService) ListRooms(ctx context.Context, hotelID string) ([]*model.Room, error) {
	if hotelID == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	rooms, err := s.roomRepo.FindByHotel(ctx, hotelID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "hotel", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to list rooms", err)
	}
	return rooms, nil
}

// OwnerDashboard aggregates the owner's bookings: total count, revenue as
// the sum of booking totals, and the bookings themselves newest first.
func (s *hotelService) OwnerDashboard(ctx context.Context, ownerID string) (*model.DashboardData, error) {
	if ownerID == "" {
		return nil, apperrors.Unauthorized("Missing authenticated principal")
	}

	hotel, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrNotFound) {
			return nil, apperrors.NoHotelFound(ownerID)
		}
		s.cfg.Log.Error("Failed to resolve owner hotel", "owner", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to resolve hotel", err)
	}

	bookings, err := s.bookingRepo.FindByHotel(ctx, hotel.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load hotel bookings", "hotel", hotel.ID, "error", err)
		return nil, apperrors.Internal("Failed to load hotel bookings", err)
	}

	roomIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		roomIDs = append(roomIDs, b.Room)
	}
	rooms, err := s.roomRepo.FindByIDs(ctx, roomIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to expand booking rooms", "hotel", hotel.ID, "error", err)
		return nil, apperrors.Internal("Failed to expand booking rooms", err)
	}

	dashboard := &model.DashboardData{
		TotalBookings: len(bookings),
		Bookings:      make([]*model.BookingView, 0, len(bookings)),
	}
	for _, b := range bookings {
		dashboard.TotalRevenue += b.TotalPrice
		dashboard.Bookings = append(dashboard.Bookings, &model.BookingView{
			Booking:  *b,
			RoomDoc:  rooms[b.Room],
			HotelDoc: hotel,
		})
	}

	return dashboard, nil
}

func (s *hotelService) sanitizeHotel(hotel *model.Hotel) {
	hotel.Name = sanitizer.NormalizeNameOrAddress(hotel.Name)
	hotel.Address = sanitizer.NormalizeNameOrAddress(hotel.Address)
	hotel.Contact = sanitizer.TrimAndNormalize(hotel.Contact)
	hotel.City = sanitizer.NormalizeCity(hotel.City)
}
