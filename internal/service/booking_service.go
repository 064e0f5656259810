package service

import (
	"context"
	"time"

	"peregovorka/internal/database"
	"peregovorka/internal/domain"
	"peregovorka/internal/events"
	"peregovorka/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	// now is swappable in tests
	now func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// ValidateTimeRange enforces the ordering constraints the booking form shows
// as advisory limits: the interval must be forward and must not start in the
// past beyond a small clock-skew grace.
func (s *BookingService) ValidateTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return database.ErrInvalidTimeRange
	}

	grace := time.Duration(models.StartTimeGrace) * time.Second
	if start.Before(s.now().Add(-grace)) {
		return database.ErrPastStartTime
	}

	return nil
}

// CreateBooking applies the booking rules: the room must exist, the caller
// must not already hold an unfinished booking for it, and the number of
// overlapping bookings must stay below the room capacity.
func (s *BookingService) CreateBooking(ctx context.Context, user *models.User, input models.BookingInput) (*models.Booking, error) {
	if err := s.ValidateTimeRange(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	room, err := s.repo.GetRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.HasActiveBooking(ctx, room.ID, user.ID, s.now())
	if err != nil {
		return nil, err
	}
	if active {
		return nil, database.ErrActiveBooking
	}

	overlapping, err := s.repo.CountOverlappingBookings(ctx, room.ID, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if int64(overlapping) >= room.Capacity {
		return nil, database.ErrRoomUnavailable
	}

	booking := &models.Booking{
		RoomID:    room.ID,
		UserID:    user.ID,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		Purpose:   input.Purpose,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking, user.ID)
	return booking, nil
}

// ListBookings returns every booking for admins and only the caller's
// bookings otherwise. Scoping happens here, not in any client.
func (s *BookingService) ListBookings(ctx context.Context, user *models.User, offset, limit int) ([]*models.Booking, error) {
	if limit <= 0 {
		limit = models.DefaultBookingsLimit
	}
	if offset < 0 {
		offset = 0
	}

	if user.IsAdmin {
		return s.repo.ListBookings(ctx, offset, limit)
	}
	return s.repo.ListUserBookings(ctx, user.ID, offset, limit)
}

func (s *BookingService) GetBooking(ctx context.Context, user *models.User, id int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin && booking.UserID != user.ID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, user *models.User, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if !user.IsAdmin && booking.UserID != user.ID {
		return ErrForbidden
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingDeleted, booking, user.ID)
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Purpose:   booking.Purpose,
		ChangedBy: changedBy,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
