package database

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrRoomUnavailable  = errors.New("room is at capacity for this time period")
	ErrActiveBooking    = errors.New("active booking for this room already exists")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrPastStartTime    = errors.New("start time is in the past")
)
