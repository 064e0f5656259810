package models

import "time"

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int64     `json:"capacity"`
	Location  string    `json:"location"`
	Amenities string    `json:"amenities"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomInput carries the mutable room fields for create/update requests.
type RoomInput struct {
	Name      string `json:"name"`
	Capacity  int64  `json:"capacity"`
	Location  string `json:"location"`
	Amenities string `json:"amenities"`
}
