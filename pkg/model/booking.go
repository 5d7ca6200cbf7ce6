package model

import "time"

// Booking references Room, Hotel and the external User by id. Hotel is
// denormalized from the room at creation time so owner dashboards can query
// bookings without touching the Rooms collection.
//
// CheckInDate and CheckOutDate carry date-only semantics: both are stored at
// midnight UTC. TotalPrice is derived once at creation and never updated.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	User         string    `json:"user" bson:"user" validate:"required"`
	Room         string    `json:"room" bson:"room" validate:"required,mongodb"`
	Hotel        string    `json:"hotel" bson:"hotel" validate:"required,mongodb"`
	Guests       int       `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	CheckInDate  time.Time `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate time.Time `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	TotalPrice   float64   `json:"total_price" bson:"total_price" validate:"omitempty,gte=0"`
	IsPaid       bool      `json:"is_paid" bson:"is_paid"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingView is a booking with its room and hotel expanded, the shape the
// history and dashboard endpoints return.
type BookingView struct {
	Booking  `bson:",inline"`
	RoomDoc  *Room  `json:"room_details,omitempty" bson:"-"`
	HotelDoc *Hotel `json:"hotel_details,omitempty" bson:"-"`
}

type DashboardData struct {
	TotalBookings int            `json:"totalBookings"`
	TotalRevenue  float64        `json:"totalRevenue"`
	Bookings      []*BookingView `json:"bookings"`
}
