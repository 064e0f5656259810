package console

import (
	"context"
	"time"

	"peregovorka/internal/models"
)

// FormState tracks the booking dialog lifecycle.
type FormState int

const (
	FormClosed FormState = iota
	FormOpen
	FormSubmitting
)

// BookingCreator is the slice of the API the form needs.
type BookingCreator interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
}

// BookingForm is the booking workflow: Closed -> Open -> Submitting -> Closed
// on success (with a refetch of the owning list), back to Open with values
// preserved on failure. Cancel discards everything.
type BookingForm struct {
	state FormState

	RoomID    int64
	RoomFixed bool
	StartTime time.Time
	EndTime   time.Time
	Purpose   string

	// LastError holds the generic message for the current failure, empty
	// otherwise.
	LastError string

	now func() time.Time
}

func NewBookingForm() *BookingForm {
	return &BookingForm{now: time.Now}
}

func (f *BookingForm) State() FormState { return f.state }

// Open initializes the form. A zero roomID leaves the room selectable.
func (f *BookingForm) Open(roomID int64) {
	now := f.now()
	f.state = FormOpen
	f.RoomID = roomID
	f.RoomFixed = roomID != 0
	f.StartTime = now
	f.EndTime = now
	f.Purpose = ""
	f.LastError = ""
}

// Cancel returns to Closed, discarding form state.
func (f *BookingForm) Cancel() {
	*f = BookingForm{now: f.now}
}

// ClampStart enforces the start selector's minimum: now.
func (f *BookingForm) ClampStart(start time.Time) time.Time {
	if now := f.now(); start.Before(now) {
		return now
	}
	return start
}

// ClampEnd enforces the end selector's minimum: the current start value.
func (f *BookingForm) ClampEnd(end time.Time) time.Time {
	if end.Before(f.StartTime) {
		return f.StartTime
	}
	return end
}

// Submit sends the booking and refetches the owning list on success. On
// failure the form stays open with its values intact and a generic error
// message set. Re-entrant submits while one is in flight are ignored.
func (f *BookingForm) Submit(ctx context.Context, api BookingCreator, refetch func(context.Context) error) (*models.Booking, error) {
	if f.state != FormOpen {
		return nil, nil
	}
	f.state = FormSubmitting

	input := models.BookingInput{
		RoomID:    f.RoomID,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Purpose:   f.Purpose,
	}

	booking, err := api.CreateBooking(ctx, input)
	if err != nil {
		f.state = FormOpen
		f.LastError = "failed to create booking"
		return nil, err
	}

	f.Cancel()
	if refetch != nil {
		if err := refetch(ctx); err != nil {
			return booking, err
		}
	}
	return booking, nil
}
