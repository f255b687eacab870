package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mehan05/venue-backend-new/internal/models"
)

const bookingColumns = `id, venue, date, time, purpose, status, remark, created_at, updated_at`

// CreateBooking inserts a new booking request. The status always starts as
// Pending and the remark empty, whatever the caller set on the struct.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO bookings (id, venue, date, time, purpose, status, remark, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.Venue,
		booking.Date,
		booking.Time,
		booking.Purpose,
		models.StatusPending,
		"",
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.Status = models.StatusPending
	booking.Remark = ""
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// GetBooking returns a booking by id, or ErrBookingNotFound.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Venue, &b.Date, &b.Time, &b.Purpose, &b.Status, &b.Remark, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// ListBookings returns bookings in insertion order. A non-empty facultyID
// filters on the faculty_id column. Nothing ever writes that column, so
// the filtered result is always empty.
func (db *DB) ListBookings(ctx context.Context, facultyID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []interface{}{}
	if facultyID != "" {
		query += ` WHERE faculty_id = ?`
		args = append(args, facultyID)
	}
	query += ` ORDER BY rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.Venue, &b.Date, &b.Time, &b.Purpose, &b.Status, &b.Remark, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// SetBookingStatus loads the booking, then unconditionally overwrites its
// status and remark. Missing bookings fail with ErrBookingNotFound. The
// status value is stored as supplied, without checking it against the
// lifecycle enum.
func (db *DB) SetBookingStatus(ctx context.Context, id, status, remark string) (*models.Booking, error) {
	booking, err := db.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	query := `UPDATE bookings SET status = ?, remark = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, remark, now, id); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = status
	booking.Remark = remark
	booking.UpdatedAt = now
	return booking, nil
}

// PatchBookingStatus performs a find-and-update in one statement and
// returns the post-update booking. A missing id yields (nil, nil), not an
// error. SetBookingStatus is the stricter variant.
func (db *DB) PatchBookingStatus(ctx context.Context, id, status, remark string) (*models.Booking, error) {
	query := `UPDATE bookings SET status = ?, remark = ?, updated_at = ?
              WHERE id = ?
              RETURNING ` + bookingColumns

	var b models.Booking
	err := db.QueryRowContext(ctx, query, status, remark, time.Now(), id).Scan(
		&b.ID, &b.Venue, &b.Date, &b.Time, &b.Purpose, &b.Status, &b.Remark, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to patch booking status: %w", err)
	}
	return &b, nil
}

// CountBookingsByStatus returns booking counts keyed by status value.
func (db *DB) CountBookingsByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM bookings GROUP BY status`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
