package domain

import (
	"context"
	"time"

	"peregovorka/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	ListBookings(ctx context.Context, offset, limit int) ([]*models.Booking, error)
	ListUserBookings(ctx context.Context, userID int64, offset, limit int) ([]*models.Booking, error)
	CountOverlappingBookings(ctx context.Context, roomID int64, start, end time.Time) (int, error)
	HasActiveBooking(ctx context.Context, roomID, userID int64, now time.Time) (bool, error)
}

// TokenRepository maps opaque bearer tokens to user IDs with a TTL and
// throttles login attempts. Resolve returns 0 for an unknown token.
type TokenRepository interface {
	SaveToken(ctx context.Context, token string, userID int64, ttl time.Duration) error
	ResolveToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	EnsureBootstrapAdmin(ctx context.Context) error
}

type RoomService interface {
	CreateRoom(ctx context.Context, input models.RoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, id int64, input models.RoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, user *models.User, input models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, user *models.User, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, user *models.User, offset, limit int) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, user *models.User, id int64) error
}
