package repository

import (
	"context"
	"fmt"
	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id int) (*model.Booking, error)
	FindByUserID(ctx context.Context, userID int) ([]*model.Booking, error)
	// ListExpiredPending 列出建立時間早於 before 的 PENDING 訂位
	ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error)
	OccupiedLabelsByShowtime(ctx context.Context, showtimeID int) ([]string, error)
	OccupiedLabelsByEvent(ctx context.Context, eventID int) ([]string, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error)
	CountByUserAndStatus(ctx context.Context, tx pgx.Tx, userID int, status model.BookingStatus) (int, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, from, to model.BookingStatus, now time.Time) (*model.Booking, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

const bookingColumns = `id, user_id, event_id, showtime_id, ticket_count, seat_labels,
		total_price, status, created_at, updated_at, cancelled_at`

func (r *BookingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (
			user_id, event_id, showtime_id, ticket_count, seat_labels,
			total_price, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + bookingColumns

	labels := booking.SeatLabels
	if labels == nil {
		labels = []string{}
	}

	created, err := scanBooking(tx.QueryRow(ctx, query,
		booking.UserID, booking.EventID, booking.ShowtimeID, booking.TicketCount, labels,
		booking.TotalPrice, booking.Status, booking.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err, "uq_bookings_one_pending_per_user") {
			return nil, apperrors.ErrDuplicatePendingBooking
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *BookingRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, query, id))
}

func (r *BookingRepositoryImpl) FindByUserID(ctx context.Context, userID int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *BookingRepositoryImpl) ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.BookingStatusPending, before, limit)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *BookingRepositoryImpl) OccupiedLabelsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	query := `
		SELECT DISTINCT unnest(seat_labels) AS label
		FROM bookings
		WHERE showtime_id = $1 AND status <> $2
		ORDER BY label
	`
	return r.collectLabels(ctx, query, showtimeID, model.BookingStatusCancelled)
}

func (r *BookingRepositoryImpl) OccupiedLabelsByEvent(ctx context.Context, eventID int) ([]string, error) {
	query := `
		SELECT DISTINCT unnest(seat_labels) AS label
		FROM bookings
		WHERE event_id = $1 AND status <> $2
		ORDER BY label
	`
	return r.collectLabels(ctx, query, eventID, model.BookingStatusCancelled)
}

func (r *BookingRepositoryImpl) collectLabels(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	labels, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

func (r *BookingRepositoryImpl) CountByUserAndStatus(ctx context.Context, tx pgx.Tx, userID int, status model.BookingStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE user_id = $1 AND status = $2
	`

	var count int
	err := tx.QueryRow(ctx, query, userID, status).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateStatus 只在目前狀態為 from 時更新，避免覆蓋併發的狀態變更
func (r *BookingRepositoryImpl) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	from, to model.BookingStatus,
	now time.Time,
) (*model.Booking, error) {
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("booking %d: %s -> %s: %w", id, from, to, apperrors.ErrInvalidInput)
	}

	query := `
		UPDATE bookings
		SET status = $1,
			updated_at = $2,
			cancelled_at = CASE WHEN $1 = 'CANCELLED' THEN $2 ELSE cancelled_at END
		WHERE id = $3 AND status = $4
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query, to, now, id, from))
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.ShowtimeID,
		&booking.TicketCount,
		&booking.SeatLabels,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
