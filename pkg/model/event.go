package model

import "time"

const EventTypeBookingConfirmed = "booking.confirmed"

// BookingConfirmed is the event published after a booking is durably
// persisted. The notifier consumes it to send the confirmation email, fully
// decoupled from the request path.
type BookingConfirmed struct {
	BookingID     string    `json:"booking_id"`
	UserEmail     string    `json:"user_email"`
	Username      string    `json:"username"`
	HotelName     string    `json:"hotel_name"`
	HotelAddress  string    `json:"hotel_address"`
	HotelCity     string    `json:"hotel_city"`
	RoomType      string    `json:"room_type"`
	Guests        int       `json:"guests"`
	CheckInDate   time.Time `json:"check_in_date"`
	CheckOutDate  time.Time `json:"check_out_date"`
	TotalPrice    float64   `json:"total_price"`
	IsPaid        bool      `json:"is_paid"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}
