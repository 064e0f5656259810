package service

import (
	"context"
	"fmt"
	"strings"

	"peregovorka/internal/domain"
	"peregovorka/internal/events"
	"peregovorka/internal/models"

	"github.com/rs/zerolog"
)

type RoomService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewRoomService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RoomService {
	return &RoomService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func validateRoomInput(input *models.RoomInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if input.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, input models.RoomInput) (*models.Room, error) {
	if err := validateRoomInput(&input); err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:      input.Name,
		Capacity:  input.Capacity,
		Location:  input.Location,
		Amenities: input.Amenities,
		IsActive:  true,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoomEvent(events.EventRoomCreated, room)
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *RoomService) UpdateRoom(ctx context.Context, id int64, input models.RoomInput) (*models.Room, error) {
	if err := validateRoomInput(&input); err != nil {
		return nil, err
	}

	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Name = input.Name
	room.Capacity = input.Capacity
	room.Location = input.Location
	room.Amenities = input.Amenities
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}

	s.publishRoomEvent(events.EventRoomUpdated, room)
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}

	s.publishRoomEvent(events.EventRoomDeleted, room)
	return nil
}

func (s *RoomService) publishRoomEvent(eventType string, room *models.Room) {
	if s.eventBus == nil {
		return
	}

	payload := events.RoomEventPayload{
		RoomID:   room.ID,
		Name:     room.Name,
		Capacity: room.Capacity,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("room_id", room.ID).Msg("publish event error")
	}
}
