package repository

import (
	"context"
	"fmt"

	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShowtimeRepository interface {
	FindByID(ctx context.Context, id int) (*model.Showtime, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Showtime, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, showtime *model.Showtime) (*model.Showtime, error)
	FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Showtime, error)
}

type ShowtimeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewShowtimeRepository(pool *pgxpool.Pool) ShowtimeRepository {
	return &ShowtimeRepositoryImpl{
		pool: pool,
	}
}

const showtimeColumns = `id, event_id, starts_at, seat_rows, seat_cols, price, created_at`

func (r *ShowtimeRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, showtime *model.Showtime) (*model.Showtime, error) {
	query := `
		INSERT INTO showtimes (event_id, starts_at, seat_rows, seat_cols, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + showtimeColumns

	created, err := scanShowtime(tx.QueryRow(ctx, query,
		showtime.EventID, showtime.StartsAt, showtime.SeatRows, showtime.SeatCols, showtime.Price,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}
	return created, nil
}

func (r *ShowtimeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`
	return scanShowtime(r.pool.QueryRow(ctx, query, id))
}

func (r *ShowtimeRepositoryImpl) FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`
	return scanShowtime(tx.QueryRow(ctx, query, id))
}

func (r *ShowtimeRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE event_id = $1
		ORDER BY starts_at
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]*model.Showtime, 0)
	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		showtimes = append(showtimes, showtime)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func scanShowtime(row pgx.Row) (*model.Showtime, error) {
	var showtime model.Showtime
	err := row.Scan(
		&showtime.ID,
		&showtime.EventID,
		&showtime.StartsAt,
		&showtime.SeatRows,
		&showtime.SeatCols,
		&showtime.Price,
		&showtime.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrShowtimeNotFound
		}
		return nil, err
	}
	return &showtime, nil
}
