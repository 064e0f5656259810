package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"peregovorka/internal/models"
)

const bookingColumns = `id, room_id, user_id, start_time, end_time, purpose, created_at, updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (room_id, user_id, start_time, end_time, purpose, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.RoomID,
		booking.UserID,
		booking.StartTime.UTC(),
		booking.EndTime.UTC(),
		booking.Purpose,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get booking id: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	var booking models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Purpose,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListBookings(ctx context.Context, offset, limit int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              ORDER BY start_time, id LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, limit, offset)
}

func (db *DB) ListUserBookings(ctx context.Context, userID int64, offset, limit int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE user_id = ? ORDER BY start_time, id LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, userID, limit, offset)
}

// CountOverlappingBookings counts bookings for the room whose interval
// intersects [start, end): start_time < end AND end_time > start.
func (db *DB) CountOverlappingBookings(ctx context.Context, roomID int64, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE room_id = ? AND start_time < ? AND end_time > ?`

	var count int
	err := db.QueryRowContext(ctx, query, roomID, end.UTC(), start.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// HasActiveBooking reports whether the user already holds a booking for the
// room that has not ended yet.
func (db *DB) HasActiveBooking(ctx context.Context, roomID, userID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE room_id = ? AND user_id = ? AND end_time > ?`

	var count int
	err := db.QueryRowContext(ctx, query, roomID, userID, now.UTC()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active booking: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.RoomID,
			&booking.UserID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Purpose,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
