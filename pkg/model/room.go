package model

import "time"

type Room struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Hotel         string    `json:"hotel" bson:"hotel" validate:"required,mongodb"`
	RoomType      string    `json:"room_type" bson:"room_type" validate:"required,min=2,max=100"`
	PricePerNight float64   `json:"price_per_night" bson:"price_per_night" validate:"required,gt=0"`
	Amenities     []string  `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,dive,min=1,max=100"`
	IsAvailable   bool      `json:"is_available" bson:"is_available"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
