package model

import "time"

type Hotel struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address   string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Contact   string    `json:"contact" bson:"contact" validate:"required,min=5,max=50"`
	Owner     string    `json:"owner" bson:"owner" validate:"required"`
	City      string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
